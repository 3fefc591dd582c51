package db

import "context"

const insertNotification = `
INSERT INTO notification (id, todo_id, owner_id, title, message, sequence, final, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type InsertNotificationParams struct {
	ID        string
	TodoID    int64
	OwnerID   string
	Title     string
	Message   string
	Sequence  int64
	Final     bool
	CreatedAt int64
}

func (q *Queries) InsertNotification(ctx context.Context, arg InsertNotificationParams) error {
	_, err := q.db.ExecContext(ctx, insertNotification,
		arg.ID,
		arg.TodoID,
		arg.OwnerID,
		arg.Title,
		arg.Message,
		arg.Sequence,
		arg.Final,
		arg.CreatedAt,
	)
	return err
}

// A negative limit means no limit in SQLite.
const listNotifications = `
SELECT id, todo_id, owner_id, title, message, sequence, final, created_at
FROM notification
WHERE owner_id = ?
ORDER BY created_at DESC, sequence DESC
LIMIT ?`

type ListNotificationsParams struct {
	OwnerID string
	Limit   int64
}

func (q *Queries) ListNotifications(ctx context.Context, arg ListNotificationsParams) ([]Notification, error) {
	rows, err := q.db.QueryContext(ctx, listNotifications, arg.OwnerID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID,
			&n.TodoID,
			&n.OwnerID,
			&n.Title,
			&n.Message,
			&n.Sequence,
			&n.Final,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const deleteNotificationsByOwner = `DELETE FROM notification WHERE owner_id = ?`

func (q *Queries) DeleteNotificationsByOwner(ctx context.Context, ownerID string) error {
	_, err := q.db.ExecContext(ctx, deleteNotificationsByOwner, ownerID)
	return err
}

const deleteNotificationsByTodo = `DELETE FROM notification WHERE todo_id = ?`

func (q *Queries) DeleteNotificationsByTodo(ctx context.Context, todoID int64) error {
	_, err := q.db.ExecContext(ctx, deleteNotificationsByTodo, todoID)
	return err
}

const countNotificationsByOwner = `SELECT COUNT(*) FROM notification WHERE owner_id = ?`

func (q *Queries) CountNotificationsByOwner(ctx context.Context, ownerID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countNotificationsByOwner, ownerID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
