package stores

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/todomanage/internal/core/kiv"
	"github.com/colonyops/todomanage/internal/data/db"
)

// KIVStore implements kiv.Store using SQLite. Each item owns at most one row,
// enforced by a unique index on todo_id.
type KIVStore struct {
	db *db.DB
}

var _ kiv.Store = (*KIVStore)(nil)

// NewKIVStore creates a new SQLite-backed keep-in-view store.
func NewKIVStore(db *db.DB) *KIVStore {
	return &KIVStore{db: db}
}

// Enter creates or reactivates the entry for an item.
func (s *KIVStore) Enter(ctx context.Context, todoID int64, userID string, now time.Time) (kiv.Entry, error) {
	var entry db.KivEntry
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		existing, err := q.GetKivEntry(ctx, todoID)
		switch {
		case IsNotFoundError(err):
			if err := q.InsertKivEntry(ctx, db.InsertKivEntryParams{
				TodoID:    todoID,
				UserID:    userID,
				EnteredAt: now.UnixNano(),
			}); err != nil {
				return fmt.Errorf("insert kiv entry: %w", err)
			}
		case err != nil:
			return err
		case !existing.IsActive:
			if err := q.ReactivateKivEntry(ctx, db.ReactivateKivEntryParams{
				EnteredAt: now.UnixNano(),
				UserID:    userID,
				TodoID:    todoID,
			}); err != nil {
				return fmt.Errorf("reactivate kiv entry: %w", err)
			}
		}

		entry, err = q.GetKivEntry(ctx, todoID)
		return err
	})
	if err != nil {
		return kiv.Entry{}, storageError("enter kiv", err)
	}

	return rowToKIVEntry(entry), nil
}

// Exit deactivates the active entry of an item.
func (s *KIVStore) Exit(ctx context.Context, todoID int64, now time.Time) (bool, error) {
	n, err := s.db.Queries().DeactivateKivEntry(ctx, db.DeactivateKivEntryParams{
		ExitedAt: sql.NullInt64{Int64: now.UnixNano(), Valid: true},
		TodoID:   todoID,
	})
	if err != nil {
		return false, storageError("exit kiv", err)
	}
	return n > 0, nil
}

// IsActive reports whether an item is set aside.
func (s *KIVStore) IsActive(ctx context.Context, todoID int64) (bool, error) {
	e, ok, err := s.Get(ctx, todoID)
	if err != nil || !ok {
		return false, err
	}
	return e.Active, nil
}

// Get returns the entry for an item, active or not.
func (s *KIVStore) Get(ctx context.Context, todoID int64) (kiv.Entry, bool, error) {
	row, err := s.db.Queries().GetKivEntry(ctx, todoID)
	if err != nil {
		if IsNotFoundError(err) {
			return kiv.Entry{}, false, nil
		}
		return kiv.Entry{}, false, storageError("get kiv entry", err)
	}
	return rowToKIVEntry(row), true, nil
}

// ListActive returns a user's active entries, most recently entered first.
func (s *KIVStore) ListActive(ctx context.Context, userID string) ([]kiv.Entry, error) {
	rows, err := s.db.Queries().ListActiveKivEntries(ctx, userID)
	if err != nil {
		return nil, storageError("list kiv entries", err)
	}

	entries := make([]kiv.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToKIVEntry(row))
	}
	return entries, nil
}

func rowToKIVEntry(row db.KivEntry) kiv.Entry {
	return kiv.Entry{
		TodoID:    row.TodoID,
		UserID:    row.UserID,
		EnteredAt: fromUnixNano(row.EnteredAt),
		ExitedAt:  fromNullTime(row.ExitedAt),
		Active:    row.IsActive,
	}
}
