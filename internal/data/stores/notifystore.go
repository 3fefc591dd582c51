package stores

import (
	"context"

	"github.com/colonyops/todomanage/internal/core/notify"
	"github.com/colonyops/todomanage/internal/data/db"
)

// NotifyStore implements notify.Store using SQLite.
type NotifyStore struct {
	db *db.DB
}

var _ notify.Store = (*NotifyStore)(nil)

// NewNotifyStore creates a new SQLite-backed notification store.
func NewNotifyStore(db *db.DB) *NotifyStore {
	return &NotifyStore{db: db}
}

// Save persists a notification.
func (s *NotifyStore) Save(ctx context.Context, n notify.Notification) error {
	err := s.db.Queries().InsertNotification(ctx, db.InsertNotificationParams{
		ID:        n.ID,
		TodoID:    n.TodoID,
		OwnerID:   n.OwnerID,
		Title:     n.Title,
		Message:   n.Message,
		Sequence:  int64(n.Sequence),
		Final:     n.Final,
		CreatedAt: n.CreatedAt.UnixNano(),
	})
	return storageError("insert notification", err)
}

// List returns an owner's notifications ordered by newest first.
func (s *NotifyStore) List(ctx context.Context, owner string, limit int) ([]notify.Notification, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.Queries().ListNotifications(ctx, db.ListNotificationsParams{
		OwnerID: owner,
		Limit:   int64(limit),
	})
	if err != nil {
		return nil, storageError("list notifications", err)
	}

	result := make([]notify.Notification, 0, len(rows))
	for _, row := range rows {
		result = append(result, rowToNotification(row))
	}

	return result, nil
}

// Clear deletes an owner's notifications.
func (s *NotifyStore) Clear(ctx context.Context, owner string) error {
	return storageError("clear notifications", s.db.Queries().DeleteNotificationsByOwner(ctx, owner))
}

// Count returns the number of notifications an owner has.
func (s *NotifyStore) Count(ctx context.Context, owner string) (int64, error) {
	count, err := s.db.Queries().CountNotificationsByOwner(ctx, owner)
	if err != nil {
		return 0, storageError("count notifications", err)
	}
	return count, nil
}

func rowToNotification(row db.Notification) notify.Notification {
	return notify.Notification{
		ID:        row.ID,
		TodoID:    row.TodoID,
		OwnerID:   row.OwnerID,
		Title:     row.Title,
		Message:   row.Message,
		Sequence:  int(row.Sequence),
		Final:     row.Final,
		CreatedAt: fromUnixNano(row.CreatedAt),
	}
}
