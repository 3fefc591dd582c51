// Package reminder implements the per-item reminder sub-state and the capped,
// backoff-spaced delivery policy applied when reminders are polled.
package reminder

import "time"

// Reminder is the reminder sub-state carried by a todo item.
type Reminder struct {
	Enabled  bool
	At       *time.Time // UTC
	Sent     bool       // retired: cancelled or auto-closed
	Progress Progress
}

// Set arms the reminder for t and forgets any earlier delivery progress.
func (r *Reminder) Set(t time.Time) {
	at := t.UTC()
	*r = Reminder{Enabled: true, At: &at}
}

// Clear removes the reminder entirely.
func (r *Reminder) Clear() {
	*r = Reminder{}
}

// Cancel retires an enabled reminder and resets its counters. It returns false
// and leaves r untouched when no reminder is enabled.
func (r *Reminder) Cancel() bool {
	if !r.Enabled {
		return false
	}
	r.Enabled = false
	r.Sent = true
	r.Progress = Progress{}
	return true
}

// MarkSent records a delivered notification. Reaching MaxNotifications closes
// the reminder.
func (r *Reminder) MarkSent(now time.Time) {
	r.Progress = r.Progress.Advance(now)
	if r.Progress.Count() >= MaxNotifications {
		r.close()
	}
}

// AutoClose retires a reminder that has exhausted its notifications while
// keeping the count.
func (r *Reminder) AutoClose() {
	r.close()
}

func (r *Reminder) close() {
	r.Enabled = false
	r.Sent = true
}

// IsCandidate reports whether the reminder takes part in polling at all.
func (r Reminder) IsCandidate() bool {
	return r.Enabled && !r.Sent && r.At != nil
}

// Decision is the outcome of evaluating a reminder at an instant.
type Decision int

const (
	Skip Decision = iota
	Fire
	AutoCloseNow
)

func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case Fire:
		return "fire"
	case AutoCloseNow:
		return "auto-close"
	}
	return "unknown"
}

// Evaluate applies the delivery policy at now.
//
// A reminder fires once its time has passed. The first notification fires
// immediately; the n-th (n > 1) needs (n-1) * Interval to have elapsed since
// the first, inclusive. A candidate that already delivered MaxNotifications
// is due for auto-close instead.
func (r Reminder) Evaluate(now time.Time) Decision {
	if !r.IsCandidate() || !r.At.Before(now) {
		return Skip
	}

	count := r.Progress.Count()
	if count >= MaxNotifications {
		return AutoCloseNow
	}
	if count == 0 {
		return Fire
	}

	anchor, ok := r.Progress.Anchor()
	if !ok {
		return Skip
	}
	if now.Sub(anchor) >= r.Progress.Threshold() {
		return Fire
	}
	return Skip
}

// ShouldAutoClose reports whether all notifications were delivered within one
// Interval of the first. This is narrower than the unconditional close that
// MarkSent and polling perform at MaxNotifications.
func (r Reminder) ShouldAutoClose(now time.Time) bool {
	if r.Progress.Count() < MaxNotifications {
		return false
	}
	anchor, ok := r.Progress.Anchor()
	if !ok {
		return false
	}
	return now.Sub(anchor) <= Interval
}

// State names a position in the reminder state machine.
type State string

const (
	StateDisabled State = "disabled"
	StateArmed    State = "armed"
	StateDueFirst State = "due-1st"
	StateWaiting  State = "waiting"
	StateDueNth   State = "due-nth"
	StateClosed   State = "closed"
)

// State classifies the reminder at now.
func (r Reminder) State(now time.Time) State {
	if r.Progress.Kind() == Closed || (r.Sent && !r.Enabled) {
		return StateClosed
	}
	if !r.Enabled || r.At == nil {
		return StateDisabled
	}
	if !r.At.Before(now) {
		return StateArmed
	}
	if r.Progress.Kind() == NotStarted {
		return StateDueFirst
	}
	if r.Evaluate(now) == Fire {
		return StateDueNth
	}
	return StateWaiting
}

// IsPending reports whether a poll at now would deliver a notification.
func (r Reminder) IsPending(now time.Time) bool {
	return r.Evaluate(now) == Fire
}
