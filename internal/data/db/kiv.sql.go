package db

import (
	"context"
	"database/sql"
)

const getKivEntry = `
SELECT id, todo_id, user_id, entered_at, exited_at, is_active
FROM kiv_entry
WHERE todo_id = ?`

func (q *Queries) GetKivEntry(ctx context.Context, todoID int64) (KivEntry, error) {
	row := q.db.QueryRowContext(ctx, getKivEntry, todoID)
	var e KivEntry
	err := row.Scan(&e.ID, &e.TodoID, &e.UserID, &e.EnteredAt, &e.ExitedAt, &e.IsActive)
	return e, err
}

const insertKivEntry = `
INSERT INTO kiv_entry (todo_id, user_id, entered_at, is_active)
VALUES (?, ?, ?, 1)`

type InsertKivEntryParams struct {
	TodoID    int64
	UserID    string
	EnteredAt int64
}

func (q *Queries) InsertKivEntry(ctx context.Context, arg InsertKivEntryParams) error {
	_, err := q.db.ExecContext(ctx, insertKivEntry, arg.TodoID, arg.UserID, arg.EnteredAt)
	return err
}

const reactivateKivEntry = `
UPDATE kiv_entry
SET is_active = 1, exited_at = NULL, entered_at = ?, user_id = ?
WHERE todo_id = ? AND is_active = 0`

type ReactivateKivEntryParams struct {
	EnteredAt int64
	UserID    string
	TodoID    int64
}

func (q *Queries) ReactivateKivEntry(ctx context.Context, arg ReactivateKivEntryParams) error {
	_, err := q.db.ExecContext(ctx, reactivateKivEntry, arg.EnteredAt, arg.UserID, arg.TodoID)
	return err
}

const deactivateKivEntry = `
UPDATE kiv_entry
SET is_active = 0, exited_at = ?
WHERE todo_id = ? AND is_active = 1`

type DeactivateKivEntryParams struct {
	ExitedAt sql.NullInt64
	TodoID   int64
}

func (q *Queries) DeactivateKivEntry(ctx context.Context, arg DeactivateKivEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deactivateKivEntry, arg.ExitedAt, arg.TodoID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listActiveKivEntries = `
SELECT id, todo_id, user_id, entered_at, exited_at, is_active
FROM kiv_entry
WHERE user_id = ? AND is_active = 1
ORDER BY entered_at DESC, id DESC`

func (q *Queries) ListActiveKivEntries(ctx context.Context, userID string) ([]KivEntry, error) {
	rows, err := q.db.QueryContext(ctx, listActiveKivEntries, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var entries []KivEntry
	for rows.Next() {
		var e KivEntry
		if err := rows.Scan(&e.ID, &e.TodoID, &e.UserID, &e.EnteredAt, &e.ExitedAt, &e.IsActive); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return entries, rows.Err()
}

const deleteKivEntry = `DELETE FROM kiv_entry WHERE todo_id = ?`

func (q *Queries) DeleteKivEntry(ctx context.Context, todoID int64) error {
	_, err := q.db.ExecContext(ctx, deleteKivEntry, todoID)
	return err
}
