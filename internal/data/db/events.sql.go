package db

import (
	"context"
	"database/sql"
)

const insertEvent = `
INSERT INTO event (todo_id, status_id, timestamp)
VALUES (?, ?, ?)
RETURNING id`

type InsertEventParams struct {
	TodoID    int64
	StatusID  int64
	Timestamp int64
}

func (q *Queries) InsertEvent(ctx context.Context, arg InsertEventParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertEvent, arg.TodoID, arg.StatusID, arg.Timestamp)
	var id int64
	err := row.Scan(&id)
	return id, err
}

func (q *Queries) queryEvents(ctx context.Context, query string, args ...any) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.TodoID, &e.StatusID, &e.Timestamp); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return events, rows.Err()
}

const listEventsByTodo = `
SELECT id, todo_id, status_id, timestamp
FROM event
WHERE todo_id = ?
ORDER BY timestamp, id`

func (q *Queries) ListEventsByTodo(ctx context.Context, todoID int64) ([]Event, error) {
	return q.queryEvents(ctx, listEventsByTodo, todoID)
}

const listEventsByOwner = `
SELECT e.id, e.todo_id, e.status_id, e.timestamp
FROM event e
JOIN todo_item t ON t.id = e.todo_id
WHERE t.owner_id = ?
ORDER BY e.todo_id, e.timestamp, e.id`

func (q *Queries) ListEventsByOwner(ctx context.Context, ownerID string) ([]Event, error) {
	return q.queryEvents(ctx, listEventsByOwner, ownerID)
}

// getCurrentStatusID returns NULL when the item has no current event and no
// row when the item does not exist.
const getCurrentStatusID = `
SELECT e.status_id
FROM todo_item t
LEFT JOIN event e ON e.id = t.current_event_id
WHERE t.id = ?`

func (q *Queries) GetCurrentStatusID(ctx context.Context, todoID int64) (sql.NullInt64, error) {
	row := q.db.QueryRowContext(ctx, getCurrentStatusID, todoID)
	var statusID sql.NullInt64
	err := row.Scan(&statusID)
	return statusID, err
}

const deleteEventsByTodo = `DELETE FROM event WHERE todo_id = ?`

func (q *Queries) DeleteEventsByTodo(ctx context.Context, todoID int64) error {
	_, err := q.db.ExecContext(ctx, deleteEventsByTodo, todoID)
	return err
}
