// Package kiv defines the keep-in-view side queue. Setting an item aside is
// tracked here rather than in the status history, so entering or leaving the
// queue never records a status transition.
package kiv

import (
	"context"
	"time"
)

// Entry is the single keep-in-view row of a todo item. Re-entering reuses it.
type Entry struct {
	TodoID    int64      `json:"todo_id"`
	UserID    string     `json:"user_id"`
	EnteredAt time.Time  `json:"entered_at"`
	ExitedAt  *time.Time `json:"exited_at,omitempty"`
	Active    bool       `json:"active"`
}

// Store persists keep-in-view entries.
type Store interface {
	// Enter activates the entry for todoID, creating it on first use. Calling
	// Enter on an already active entry changes nothing.
	Enter(ctx context.Context, todoID int64, userID string, now time.Time) (Entry, error)

	// Exit deactivates the active entry for todoID. It reports false when
	// there was none.
	Exit(ctx context.Context, todoID int64, now time.Time) (bool, error)

	// IsActive reports whether todoID is currently set aside.
	IsActive(ctx context.Context, todoID int64) (bool, error)

	// Get returns the entry for todoID, active or not. ok is false when the
	// item never entered the queue.
	Get(ctx context.Context, todoID int64) (e Entry, ok bool, err error)

	// ListActive returns the active entries of one user, most recently
	// entered first.
	ListActive(ctx context.Context, userID string) ([]Entry, error)
}
