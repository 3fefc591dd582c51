package todo

import (
	"context"

	"github.com/colonyops/todomanage/internal/core/reminder"
	"github.com/colonyops/todomanage/internal/core/tracker"
)

// Store defines the interface for todo item persistence.
type Store interface {
	// Create persists a new item together with its first `new` event at
	// item.ModifiedAt and points the item at that event. ID and
	// CurrentEventID are populated on success.
	Create(ctx context.Context, item *Item) error

	// Get returns a single item by ID.
	// Returns ErrNotFound if the item does not exist.
	Get(ctx context.Context, id int64) (Item, error)

	// List returns items matching the filter, ordered by modified DESC.
	List(ctx context.Context, filter ListFilter) ([]Item, error)

	// Apply records a transition: appends its event, moves modified and the
	// current status pointer, and replaces content or target when given.
	// Returns ErrNotFound if the item does not exist.
	Apply(ctx context.Context, id int64, tr Transition) (tracker.Event, error)

	// UpdateReminder loads the reminder of an item, passes it to fn and
	// stores the result in one transaction. Nothing is written when fn
	// returns an error. Returns the updated item.
	UpdateReminder(ctx context.Context, id int64, fn func(*reminder.Reminder) error) (Item, error)

	// ListReminderCandidates returns items with an enabled, unsent reminder
	// that has a time set. An empty owner means every owner.
	ListReminderCandidates(ctx context.Context, owner string) ([]Item, error)

	// ListWithReminders returns an owner's items with an enabled reminder.
	ListWithReminders(ctx context.Context, owner string) ([]Item, error)

	// Delete removes an item with its events, keep-in-view entry and
	// notifications in one transaction.
	// Returns ErrNotFound if the item does not exist.
	Delete(ctx context.Context, id int64) error
}
