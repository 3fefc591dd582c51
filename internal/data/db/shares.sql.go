package db

import "context"

const upsertShare = `
INSERT INTO todo_share (owner_id, viewer_id, active, created_at)
VALUES (?, ?, 1, ?)
ON CONFLICT (owner_id, viewer_id) DO UPDATE SET active = 1`

type UpsertShareParams struct {
	OwnerID   string
	ViewerID  string
	CreatedAt int64
}

func (q *Queries) UpsertShare(ctx context.Context, arg UpsertShareParams) error {
	_, err := q.db.ExecContext(ctx, upsertShare, arg.OwnerID, arg.ViewerID, arg.CreatedAt)
	return err
}

const revokeShare = `
UPDATE todo_share SET active = 0
WHERE owner_id = ? AND viewer_id = ? AND active = 1`

type RevokeShareParams struct {
	OwnerID  string
	ViewerID string
}

func (q *Queries) RevokeShare(ctx context.Context, arg RevokeShareParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, revokeShare, arg.OwnerID, arg.ViewerID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countActiveShare = `
SELECT COUNT(*) FROM todo_share
WHERE owner_id = ? AND viewer_id = ? AND active = 1`

type CountActiveShareParams struct {
	OwnerID  string
	ViewerID string
}

func (q *Queries) CountActiveShare(ctx context.Context, arg CountActiveShareParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, countActiveShare, arg.OwnerID, arg.ViewerID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const listOwnersSharingWith = `
SELECT owner_id FROM todo_share
WHERE viewer_id = ? AND active = 1
ORDER BY owner_id`

func (q *Queries) ListOwnersSharingWith(ctx context.Context, viewerID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listOwnersSharingWith, viewerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var owners []string
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, err
		}
		owners = append(owners, owner)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return owners, rows.Err()
}

const listSharesByOwner = `
SELECT owner_id, viewer_id, active, created_at FROM todo_share
WHERE owner_id = ? AND active = 1
ORDER BY viewer_id`

func (q *Queries) ListSharesByOwner(ctx context.Context, ownerID string) ([]TodoShare, error) {
	rows, err := q.db.QueryContext(ctx, listSharesByOwner, ownerID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var shares []TodoShare
	for rows.Next() {
		var s TodoShare
		if err := rows.Scan(&s.OwnerID, &s.ViewerID, &s.Active, &s.CreatedAt); err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return shares, rows.Err()
}
