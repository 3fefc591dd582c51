// Package notify records the reminder notifications delivered to users.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/colonyops/todomanage/internal/core/reminder"
)

// Level represents the severity of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is one delivered reminder.
type Notification struct {
	ID        string    `json:"id"`
	TodoID    int64     `json:"todo_id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Sequence  int       `json:"sequence"`
	Final     bool      `json:"final"`
	CreatedAt time.Time `json:"created_at"`
}

// FromDue builds the notification for a due reminder.
func FromDue(d reminder.Due, now time.Time) Notification {
	return Notification{
		ID:        uuid.NewString(),
		TodoID:    d.TodoID,
		OwnerID:   d.OwnerID,
		Title:     d.Headline(),
		Message:   d.Message(),
		Sequence:  d.Sequence(),
		Final:     d.IsLast(),
		CreatedAt: now,
	}
}

// Level is warning for the final reminder of an item and info otherwise.
func (n Notification) Level() Level {
	if n.Final {
		return LevelWarning
	}
	return LevelInfo
}

// Store persists notifications to durable storage.
type Store interface {
	Save(ctx context.Context, n Notification) error
	// List returns an owner's notifications, newest first. limit <= 0 means all.
	List(ctx context.Context, owner string, limit int) ([]Notification, error)
	Clear(ctx context.Context, owner string) error
	Count(ctx context.Context, owner string) (int64, error)
}
