package stores

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/colonyops/todomanage/internal/core/reminder"
	"github.com/colonyops/todomanage/internal/core/status"
	"github.com/colonyops/todomanage/internal/core/todo"
	"github.com/colonyops/todomanage/internal/core/tracker"
	"github.com/colonyops/todomanage/internal/data/db"
)

// TodoStore implements todo.Store using SQLite.
type TodoStore struct {
	db *db.DB
}

var _ todo.Store = (*TodoStore)(nil)

// NewTodoStore creates a new SQLite-backed todo store.
func NewTodoStore(db *db.DB) *TodoStore {
	return &TodoStore{db: db}
}

// Create persists a new item and its first `new` event at item.ModifiedAt.
func (s *TodoStore) Create(ctx context.Context, item *todo.Item) error {
	if item.ModifiedAt.IsZero() {
		item.ModifiedAt = time.Now()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = item.ModifiedAt
	}
	if item.TargetAt.IsZero() {
		item.TargetAt = item.ModifiedAt
	}

	var id, eventID int64
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		var err error
		id, err = q.CreateTodoItem(ctx, db.CreateTodoItemParams{
			OwnerID:     item.OwnerID,
			Title:       item.Title,
			Details:     item.Details,
			DetailsHtml: item.DetailsHTML,
			CreatedAt:   item.CreatedAt.UnixNano(),
			ModifiedAt:  item.ModifiedAt.UnixNano(),
			TargetAt:    item.TargetAt.UnixNano(),
		})
		if err != nil {
			return fmt.Errorf("insert todo item: %w", err)
		}

		eventID, err = q.InsertEvent(ctx, db.InsertEventParams{
			TodoID:    id,
			StatusID:  int64(status.New.MustID()),
			Timestamp: item.ModifiedAt.UnixNano(),
		})
		if err != nil {
			return fmt.Errorf("insert initial event: %w", err)
		}

		_, err = q.UpdateTodoItemModified(ctx, db.UpdateTodoItemModifiedParams{
			ModifiedAt:     item.ModifiedAt.UnixNano(),
			CurrentEventID: toNullInt64(eventID),
			ID:             id,
		})
		return err
	})
	if err != nil {
		return storageError("create todo item", err)
	}

	item.ID = id
	item.CurrentEventID = eventID
	return nil
}

// Get returns a single item by ID.
func (s *TodoStore) Get(ctx context.Context, id int64) (todo.Item, error) {
	row, err := s.db.Queries().GetTodoItem(ctx, id)
	if err != nil {
		if IsNotFoundError(err) {
			return todo.Item{}, todo.ErrNotFound
		}
		return todo.Item{}, storageError("get todo item", err)
	}

	return rowToTodoItem(row), nil
}

// List returns an owner's items ordered by modified DESC.
func (s *TodoStore) List(ctx context.Context, filter todo.ListFilter) ([]todo.Item, error) {
	params := db.ListTodoItemsByOwnerParams{
		OwnerID:      filter.OwnerID,
		ModifiedFrom: math.MinInt64,
		ModifiedTo:   math.MaxInt64,
	}
	if !filter.ModifiedFrom.IsZero() {
		params.ModifiedFrom = filter.ModifiedFrom.UnixNano()
	}
	if !filter.ModifiedTo.IsZero() {
		params.ModifiedTo = filter.ModifiedTo.UnixNano()
	}

	rows, err := s.db.Queries().ListTodoItemsByOwner(ctx, params)
	if err != nil {
		return nil, storageError("list todo items", err)
	}

	return rowsToTodoItems(rows), nil
}

// Apply records a transition in one transaction.
func (s *TodoStore) Apply(ctx context.Context, id int64, tr todo.Transition) (tracker.Event, error) {
	statusID, ok := tr.Status.ID()
	if !ok {
		return tracker.Event{}, fmt.Errorf("apply transition: invalid status %q", tr.Status)
	}

	var eventID int64
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetTodoItem(ctx, id); err != nil {
			if IsNotFoundError(err) {
				return todo.ErrNotFound
			}
			return err
		}

		if c := tr.Content; c != nil {
			if err := q.UpdateTodoItemContent(ctx, db.UpdateTodoItemContentParams{
				Title:       c.Title,
				Details:     c.Details,
				DetailsHtml: c.DetailsHTML,
				ID:          id,
			}); err != nil {
				return fmt.Errorf("update content: %w", err)
			}
		}

		if tr.TargetAt != nil {
			if err := q.UpdateTodoItemTarget(ctx, db.UpdateTodoItemTargetParams{
				TargetAt: tr.TargetAt.UnixNano(),
				ID:       id,
			}); err != nil {
				return fmt.Errorf("update target: %w", err)
			}
		}

		var err error
		eventID, err = q.InsertEvent(ctx, db.InsertEventParams{
			TodoID:    id,
			StatusID:  int64(statusID),
			Timestamp: tr.At.UnixNano(),
		})
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		_, err = q.UpdateTodoItemModified(ctx, db.UpdateTodoItemModifiedParams{
			ModifiedAt:     tr.At.UnixNano(),
			CurrentEventID: toNullInt64(eventID),
			ID:             id,
		})
		return err
	})
	if err != nil {
		return tracker.Event{}, storageError("apply transition", err)
	}

	return tracker.Event{
		ID:        eventID,
		TodoID:    id,
		Status:    tr.Status,
		Timestamp: tr.At.UTC(),
	}, nil
}

// UpdateReminder runs fn against the stored reminder inside a transaction.
func (s *TodoStore) UpdateReminder(ctx context.Context, id int64, fn func(*reminder.Reminder) error) (todo.Item, error) {
	var (
		item  todo.Item
		fnErr error
	)
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		row, err := q.GetTodoItem(ctx, id)
		if err != nil {
			if IsNotFoundError(err) {
				return todo.ErrNotFound
			}
			return err
		}

		item = rowToTodoItem(row)
		if fnErr = fn(&item.Reminder); fnErr != nil {
			return fnErr
		}

		return q.UpdateTodoItemReminder(ctx, reminderParams(id, item.Reminder))
	})
	if fnErr != nil {
		return todo.Item{}, fnErr
	}
	if err != nil {
		return todo.Item{}, storageError("update reminder", err)
	}

	return item, nil
}

// ListReminderCandidates returns items whose reminder takes part in polling.
func (s *TodoStore) ListReminderCandidates(ctx context.Context, owner string) ([]todo.Item, error) {
	var (
		rows []db.TodoItem
		err  error
	)
	if owner == "" {
		rows, err = s.db.Queries().ListReminderCandidates(ctx)
	} else {
		rows, err = s.db.Queries().ListReminderCandidatesByOwner(ctx, owner)
	}
	if err != nil {
		return nil, storageError("list reminder candidates", err)
	}

	return rowsToTodoItems(rows), nil
}

// ListWithReminders returns an owner's items with an enabled reminder.
func (s *TodoStore) ListWithReminders(ctx context.Context, owner string) ([]todo.Item, error) {
	rows, err := s.db.Queries().ListTodoItemsWithReminders(ctx, owner)
	if err != nil {
		return nil, storageError("list reminders", err)
	}
	return rowsToTodoItems(rows), nil
}

// Delete removes an item and everything attached to it.
func (s *TodoStore) Delete(ctx context.Context, id int64) error {
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		if _, err := q.GetTodoItem(ctx, id); err != nil {
			if IsNotFoundError(err) {
				return todo.ErrNotFound
			}
			return err
		}

		if err := q.DeleteNotificationsByTodo(ctx, id); err != nil {
			return fmt.Errorf("delete notifications: %w", err)
		}
		if err := q.DeleteKivEntry(ctx, id); err != nil {
			return fmt.Errorf("delete kiv entry: %w", err)
		}
		if err := q.DeleteEventsByTodo(ctx, id); err != nil {
			return fmt.Errorf("delete events: %w", err)
		}
		if _, err := q.DeleteTodoItem(ctx, id); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		return nil
	})
	return storageError("delete todo item", err)
}

func reminderParams(id int64, r reminder.Reminder) db.UpdateTodoItemReminderParams {
	params := db.UpdateTodoItemReminderParams{
		ReminderEnabled:           r.Enabled,
		ReminderTime:              toNullTime(r.At),
		ReminderSent:              r.Sent,
		ReminderNotificationCount: int64(r.Progress.Count()),
		ID:                        id,
	}
	if anchor, ok := r.Progress.Anchor(); ok {
		params.ReminderFirstNotificationTime = toNullTime(&anchor)
	}
	return params
}

func rowsToTodoItems(rows []db.TodoItem) []todo.Item {
	items := make([]todo.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToTodoItem(row))
	}
	return items
}

func rowToTodoItem(row db.TodoItem) todo.Item {
	return todo.Item{
		ID:             row.ID,
		OwnerID:        row.OwnerID,
		Title:          row.Title,
		Details:        row.Details,
		DetailsHTML:    row.DetailsHtml,
		CreatedAt:      fromUnixNano(row.CreatedAt),
		ModifiedAt:     fromUnixNano(row.ModifiedAt),
		TargetAt:       fromUnixNano(row.TargetAt),
		CurrentEventID: row.CurrentEventID.Int64,
		Reminder: reminder.Reminder{
			Enabled: row.ReminderEnabled,
			At:      fromNullTime(row.ReminderTime),
			Sent:    row.ReminderSent,
			Progress: reminder.RestoreProgress(
				int(row.ReminderNotificationCount),
				fromNullTime(row.ReminderFirstNotificationTime),
			),
		},
	}
}
