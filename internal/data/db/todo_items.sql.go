package db

import (
	"context"
	"database/sql"
)

const todoItemColumns = `id, owner_id, title, details, details_html, created_at, modified_at, target_at,
	current_event_id, reminder_enabled, reminder_time, reminder_sent,
	reminder_notification_count, reminder_first_notification_time`

type scanner interface {
	Scan(dest ...any) error
}

func scanTodoItem(row scanner) (TodoItem, error) {
	var i TodoItem
	err := row.Scan(
		&i.ID,
		&i.OwnerID,
		&i.Title,
		&i.Details,
		&i.DetailsHtml,
		&i.CreatedAt,
		&i.ModifiedAt,
		&i.TargetAt,
		&i.CurrentEventID,
		&i.ReminderEnabled,
		&i.ReminderTime,
		&i.ReminderSent,
		&i.ReminderNotificationCount,
		&i.ReminderFirstNotificationTime,
	)
	return i, err
}

func (q *Queries) queryTodoItems(ctx context.Context, query string, args ...any) ([]TodoItem, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var items []TodoItem
	for rows.Next() {
		i, err := scanTodoItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return items, rows.Err()
}

const createTodoItem = `
INSERT INTO todo_item (owner_id, title, details, details_html, created_at, modified_at, target_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`

type CreateTodoItemParams struct {
	OwnerID     string
	Title       string
	Details     string
	DetailsHtml string
	CreatedAt   int64
	ModifiedAt  int64
	TargetAt    int64
}

func (q *Queries) CreateTodoItem(ctx context.Context, arg CreateTodoItemParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createTodoItem,
		arg.OwnerID,
		arg.Title,
		arg.Details,
		arg.DetailsHtml,
		arg.CreatedAt,
		arg.ModifiedAt,
		arg.TargetAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getTodoItem = `SELECT ` + todoItemColumns + ` FROM todo_item WHERE id = ?`

func (q *Queries) GetTodoItem(ctx context.Context, id int64) (TodoItem, error) {
	return scanTodoItem(q.db.QueryRowContext(ctx, getTodoItem, id))
}

const listTodoItemsByOwner = `SELECT ` + todoItemColumns + `
FROM todo_item
WHERE owner_id = ? AND modified_at >= ? AND modified_at < ?
ORDER BY modified_at DESC, id DESC`

type ListTodoItemsByOwnerParams struct {
	OwnerID      string
	ModifiedFrom int64
	ModifiedTo   int64
}

func (q *Queries) ListTodoItemsByOwner(ctx context.Context, arg ListTodoItemsByOwnerParams) ([]TodoItem, error) {
	return q.queryTodoItems(ctx, listTodoItemsByOwner, arg.OwnerID, arg.ModifiedFrom, arg.ModifiedTo)
}

const updateTodoItemContent = `
UPDATE todo_item SET title = ?, details = ?, details_html = ? WHERE id = ?`

type UpdateTodoItemContentParams struct {
	Title       string
	Details     string
	DetailsHtml string
	ID          int64
}

func (q *Queries) UpdateTodoItemContent(ctx context.Context, arg UpdateTodoItemContentParams) error {
	_, err := q.db.ExecContext(ctx, updateTodoItemContent, arg.Title, arg.Details, arg.DetailsHtml, arg.ID)
	return err
}

const updateTodoItemModified = `
UPDATE todo_item SET modified_at = ?, current_event_id = ? WHERE id = ?`

type UpdateTodoItemModifiedParams struct {
	ModifiedAt     int64
	CurrentEventID sql.NullInt64
	ID             int64
}

func (q *Queries) UpdateTodoItemModified(ctx context.Context, arg UpdateTodoItemModifiedParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTodoItemModified, arg.ModifiedAt, arg.CurrentEventID, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const updateTodoItemTarget = `UPDATE todo_item SET target_at = ? WHERE id = ?`

type UpdateTodoItemTargetParams struct {
	TargetAt int64
	ID       int64
}

func (q *Queries) UpdateTodoItemTarget(ctx context.Context, arg UpdateTodoItemTargetParams) error {
	_, err := q.db.ExecContext(ctx, updateTodoItemTarget, arg.TargetAt, arg.ID)
	return err
}

const updateTodoItemReminder = `
UPDATE todo_item SET
	reminder_enabled = ?,
	reminder_time = ?,
	reminder_sent = ?,
	reminder_notification_count = ?,
	reminder_first_notification_time = ?
WHERE id = ?`

type UpdateTodoItemReminderParams struct {
	ReminderEnabled               bool
	ReminderTime                  sql.NullInt64
	ReminderSent                  bool
	ReminderNotificationCount     int64
	ReminderFirstNotificationTime sql.NullInt64
	ID                            int64
}

func (q *Queries) UpdateTodoItemReminder(ctx context.Context, arg UpdateTodoItemReminderParams) error {
	_, err := q.db.ExecContext(ctx, updateTodoItemReminder,
		arg.ReminderEnabled,
		arg.ReminderTime,
		arg.ReminderSent,
		arg.ReminderNotificationCount,
		arg.ReminderFirstNotificationTime,
		arg.ID,
	)
	return err
}

const listReminderCandidates = `SELECT ` + todoItemColumns + `
FROM todo_item
WHERE reminder_enabled = 1 AND reminder_sent = 0 AND reminder_time IS NOT NULL
ORDER BY reminder_time, id`

func (q *Queries) ListReminderCandidates(ctx context.Context) ([]TodoItem, error) {
	return q.queryTodoItems(ctx, listReminderCandidates)
}

const listReminderCandidatesByOwner = `SELECT ` + todoItemColumns + `
FROM todo_item
WHERE owner_id = ? AND reminder_enabled = 1 AND reminder_sent = 0 AND reminder_time IS NOT NULL
ORDER BY reminder_time, id`

func (q *Queries) ListReminderCandidatesByOwner(ctx context.Context, ownerID string) ([]TodoItem, error) {
	return q.queryTodoItems(ctx, listReminderCandidatesByOwner, ownerID)
}

const listTodoItemsWithReminders = `SELECT ` + todoItemColumns + `
FROM todo_item
WHERE owner_id = ? AND reminder_enabled = 1 AND reminder_time IS NOT NULL
ORDER BY reminder_time, id`

func (q *Queries) ListTodoItemsWithReminders(ctx context.Context, ownerID string) ([]TodoItem, error) {
	return q.queryTodoItems(ctx, listTodoItemsWithReminders, ownerID)
}

const deleteTodoItem = `DELETE FROM todo_item WHERE id = ?`

func (q *Queries) DeleteTodoItem(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTodoItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
