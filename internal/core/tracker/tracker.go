// Package tracker defines the append-only status event log of todo items.
package tracker

import (
	"context"
	"slices"
	"time"

	"github.com/colonyops/todomanage/internal/core/status"
)

// Event is one status transition of one todo item at one instant.
type Event struct {
	ID        int64         `json:"id"`
	TodoID    int64         `json:"todo_id"`
	Status    status.Status `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
}

// Store is the event log.
type Store interface {
	// Append inserts a new event. It does not move the item's current status
	// pointer; aggregate operations do that through todo.Store.
	Append(ctx context.Context, todoID int64, s status.Status, ts time.Time) (Event, error)

	// CurrentStatus returns the status of the item's authoritative event.
	// ok is false when the item has none.
	CurrentStatus(ctx context.Context, todoID int64) (s status.Status, ok bool, err error)

	// History returns every event for an item ordered by timestamp, then id.
	History(ctx context.Context, todoID int64) ([]Event, error)

	// HistoryByOwner returns the histories of all items owned by owner, keyed by item id.
	HistoryByOwner(ctx context.Context, owner string) (map[int64][]Event, error)

	// DeleteAll removes every event for an item.
	DeleteAll(ctx context.Context, todoID int64) error
}

// Count returns how many events in history carry s.
func Count(history []Event, s status.Status) int {
	n := 0
	for _, e := range history {
		if e.Status == s {
			n++
		}
	}
	return n
}

// Contains reports whether any event in history carries s.
func Contains(history []Event, s status.Status) bool {
	return slices.ContainsFunc(history, func(e Event) bool { return e.Status == s })
}
