package stores

import (
	"context"
	"time"

	"github.com/colonyops/todomanage/internal/core/share"
	"github.com/colonyops/todomanage/internal/data/db"
)

// ShareStore implements share.Store using SQLite.
type ShareStore struct {
	db *db.DB
}

var _ share.Store = (*ShareStore)(nil)

// NewShareStore creates a new SQLite-backed share store.
func NewShareStore(db *db.DB) *ShareStore {
	return &ShareStore{db: db}
}

func (s *ShareStore) Grant(ctx context.Context, owner, viewer string, now time.Time) error {
	err := s.db.Queries().UpsertShare(ctx, db.UpsertShareParams{
		OwnerID:   owner,
		ViewerID:  viewer,
		CreatedAt: now.UnixNano(),
	})
	return storageError("grant share", err)
}

func (s *ShareStore) Revoke(ctx context.Context, owner, viewer string) (bool, error) {
	n, err := s.db.Queries().RevokeShare(ctx, db.RevokeShareParams{OwnerID: owner, ViewerID: viewer})
	if err != nil {
		return false, storageError("revoke share", err)
	}
	return n > 0, nil
}

func (s *ShareStore) IsSharing(ctx context.Context, owner, viewer string) (bool, error) {
	n, err := s.db.Queries().CountActiveShare(ctx, db.CountActiveShareParams{OwnerID: owner, ViewerID: viewer})
	if err != nil {
		return false, storageError("check share", err)
	}
	return n > 0, nil
}

func (s *ShareStore) OwnersSharingWith(ctx context.Context, viewer string) ([]string, error) {
	owners, err := s.db.Queries().ListOwnersSharingWith(ctx, viewer)
	if err != nil {
		return nil, storageError("list sharing owners", err)
	}
	return owners, nil
}

func (s *ShareStore) ListByOwner(ctx context.Context, owner string) ([]share.Grant, error) {
	rows, err := s.db.Queries().ListSharesByOwner(ctx, owner)
	if err != nil {
		return nil, storageError("list shares", err)
	}

	grants := make([]share.Grant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, share.Grant{
			OwnerID:   row.OwnerID,
			ViewerID:  row.ViewerID,
			Active:    row.Active,
			CreatedAt: fromUnixNano(row.CreatedAt),
		})
	}
	return grants, nil
}
