// Package share holds the read-only sharing grants between users.
package share

import (
	"context"
	"time"
)

// Grant lets Viewer read every item owned by Owner.
type Grant struct {
	OwnerID   string    `json:"owner_id"`
	ViewerID  string    `json:"viewer_id"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sharing grants.
type Store interface {
	// Grant activates read access for viewer, reusing a revoked grant.
	Grant(ctx context.Context, owner, viewer string, now time.Time) error
	// Revoke deactivates the grant. It reports false when none was active.
	Revoke(ctx context.Context, owner, viewer string) (bool, error)
	// IsSharing reports whether owner currently shares with viewer.
	IsSharing(ctx context.Context, owner, viewer string) (bool, error)
	// OwnersSharingWith lists owners with an active grant to viewer.
	OwnersSharingWith(ctx context.Context, viewer string) ([]string, error)
	// ListByOwner returns the active grants an owner has given.
	ListByOwner(ctx context.Context, owner string) ([]Grant, error)
}
