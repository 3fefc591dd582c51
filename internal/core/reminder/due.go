package reminder

import (
	"fmt"
	"time"
)

// Due summarises an item whose reminder should fire now.
type Due struct {
	TodoID     int64     `json:"todo_id"`
	OwnerID    string    `json:"owner_id"`
	Title      string    `json:"title"`
	Details    string    `json:"details,omitempty"`
	ReminderAt time.Time `json:"reminder_at"`
	// Delivered is the number of notifications already sent.
	Delivered int `json:"notification_count"`
}

// Sequence is the 1-based number of the notification about to be sent.
func (d Due) Sequence() int { return d.Delivered + 1 }

// IsLast reports whether this notification closes the reminder.
func (d Due) IsLast() bool { return d.Sequence() >= MaxNotifications }

// Headline is the notification title.
func (d Due) Headline() string {
	return "Reminder: " + d.Title
}

// Message is the notification body, tagged with its place in the sequence.
func (d Due) Message() string {
	return fmt.Sprintf("Your task '%s' is due!%s", d.Title, sequenceSuffix(d.Sequence()))
}

func sequenceSuffix(seq int) string {
	switch {
	case seq <= 0:
		return ""
	case seq == 1:
		return " (1st reminder)"
	case seq == 2:
		return " (2nd reminder)"
	default:
		return " (final reminder - will auto-close after this)"
	}
}
