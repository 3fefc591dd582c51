package stores

import (
	"context"
	"fmt"
	"time"

	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/tracker"
	"github.com/colonyops/todomanage/internal/data/db"
)

// EventStore implements tracker.Store using SQLite.
type EventStore struct {
	db *db.DB
}

var _ tracker.Store = (*EventStore)(nil)

// NewEventStore creates a new SQLite-backed event store.
func NewEventStore(db *db.DB) *EventStore {
	return &EventStore{db: db}
}

// Append inserts an event without touching the item's current status pointer.
func (s *EventStore) Append(ctx context.Context, todoID int64, st status.Status, ts time.Time) (tracker.Event, error) {
	statusID, ok := st.ID()
	if !ok {
		return tracker.Event{}, fmt.Errorf("append event: invalid status %q", st)
	}
	if ts.IsZero() {
		ts = time.Now()
	}

	var id int64
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetTodoItem(ctx, todoID); err != nil {
			if IsNotFoundError(err) {
				return todo.ErrNotFound
			}
			return err
		}

		var err error
		id, err = q.InsertEvent(ctx, db.InsertEventParams{
			TodoID:    todoID,
			StatusID:  int64(statusID),
			Timestamp: ts.UnixNano(),
		})
		return err
	})
	if err != nil {
		return tracker.Event{}, storageError("append event", err)
	}

	return tracker.Event{ID: id, TodoID: todoID, Status: st, Timestamp: ts.UTC()}, nil
}

// CurrentStatus returns the status of the event the item points at.
func (s *EventStore) CurrentStatus(ctx context.Context, todoID int64) (status.Status, bool, error) {
	statusID, err := s.db.Queries().GetCurrentStatusID(ctx, todoID)
	if err != nil {
		if IsNotFoundError(err) {
			return "", false, todo.ErrNotFound
		}
		return "", false, storageError("current status", err)
	}
	if !statusID.Valid {
		return status.Pending, false, nil
	}

	st, err := status.FromID(status.ID(statusID.Int64))
	if err != nil {
		return "", false, storageError("current status", err)
	}
	return st, true, nil
}

// History returns an item's events ordered by timestamp, then id.
func (s *EventStore) History(ctx context.Context, todoID int64) ([]tracker.Event, error) {
	rows, err := s.db.Queries().ListEventsByTodo(ctx, todoID)
	if err != nil {
		return nil, storageError("event history", err)
	}

	events := make([]tracker.Event, 0, len(rows))
	for _, row := range rows {
		e, err := rowToEvent(row)
		if err != nil {
			return nil, storageError("event history", err)
		}
		events = append(events, e)
	}
	return events, nil
}

// HistoryByOwner returns the histories of every item an owner has.
func (s *EventStore) HistoryByOwner(ctx context.Context, owner string) (map[int64][]tracker.Event, error) {
	rows, err := s.db.Queries().ListEventsByOwner(ctx, owner)
	if err != nil {
		return nil, storageError("owner event history", err)
	}

	out := make(map[int64][]tracker.Event)
	for _, row := range rows {
		e, err := rowToEvent(row)
		if err != nil {
			return nil, storageError("owner event history", err)
		}
		out[e.TodoID] = append(out[e.TodoID], e)
	}
	return out, nil
}

// DeleteAll removes every event of an item.
func (s *EventStore) DeleteAll(ctx context.Context, todoID int64) error {
	if err := s.db.Queries().DeleteEventsByTodo(ctx, todoID); err != nil {
		return storageError("delete events", err)
	}
	return nil
}

func rowToEvent(row db.Event) (tracker.Event, error) {
	st, err := status.FromID(status.ID(row.StatusID))
	if err != nil {
		return tracker.Event{}, err
	}
	return tracker.Event{
		ID:        row.ID,
		TodoID:    row.TodoID,
		Status:    st,
		Timestamp: fromUnixNano(row.Timestamp),
	}, nil
}
