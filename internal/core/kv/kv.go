// Package kv defines a small persistent key-value store used for process
// bookkeeping such as background job leases and run reports.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned by Get for a missing or expired key.
var ErrNotFound = errors.New("kv: key not found")

// Entry represents a raw KV entry with metadata.
type Entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	ExpiresAt *time.Time      `json:"expires_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// KV is the interface for a persistent key-value store.
// Keys are strings, values are JSON-serializable.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	GetRaw(ctx context.Context, key string) (Entry, error)

	// Claim stores holder under key for ttl unless another holder owns an
	// unexpired claim. A holder may renew its own claim.
	Claim(ctx context.Context, key, holder string, ttl time.Duration) (bool, error)

	// SweepExpired deletes expired entries and returns how many were removed.
	SweepExpired(ctx context.Context) (int64, error)
}
