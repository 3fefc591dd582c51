package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/todomanage/internal/core/kv"
	"github.com/colonyops/todomanage/internal/data/db"
)

// KVStore implements kv.KV using SQLite.
type KVStore struct {
	db  *db.DB
	now func() time.Time
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new SQLite-backed KV store.
func NewKVStore(db *db.DB) *KVStore {
	return &KVStore{db: db, now: time.Now}
}

// Get retrieves and deserializes a value by key.
// Expired entries are lazily deleted and treated as missing.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	row, err := s.load(ctx, s.db.Queries(), key)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(row.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}

	return nil
}

// Set stores a value with no expiry.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	return s.set(ctx, s.db.Queries(), key, value, sql.NullInt64{})
}

// SetTTL stores a value that expires after the given duration.
func (s *KVStore) SetTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	return s.set(ctx, s.db.Queries(), key, value, s.expiry(ttl))
}

// Delete removes a key.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.db.Queries().KVDelete(ctx, key); err != nil {
		return storageError("kv delete", err)
	}
	return nil
}

// GetRaw retrieves a raw KV entry with metadata.
func (s *KVStore) GetRaw(ctx context.Context, key string) (kv.Entry, error) {
	row, err := s.load(ctx, s.db.Queries(), key)
	if err != nil {
		return kv.Entry{}, err
	}

	entry := kv.Entry{
		Key:       row.Key,
		Value:     json.RawMessage(row.Value),
		CreatedAt: fromUnixNano(row.CreatedAt),
		UpdatedAt: fromUnixNano(row.UpdatedAt),
	}
	entry.ExpiresAt = fromNullTime(row.ExpiresAt)

	return entry, nil
}

// Claim implements kv.KV.
func (s *KVStore) Claim(ctx context.Context, key, holder string, ttl time.Duration) (bool, error) {
	claimed := false
	err := s.db.WithTx(ctx, func(q *db.Queries) error {
		row, err := s.load(ctx, q, key)
		switch {
		case errors.Is(err, kv.ErrNotFound):
		case err != nil:
			return err
		default:
			var current string
			if err := json.Unmarshal(row.Value, &current); err == nil && current != holder {
				return nil
			}
		}

		claimed = true
		return s.set(ctx, q, key, holder, s.expiry(ttl))
	})
	if err != nil {
		return false, err
	}
	return claimed, nil
}

// SweepExpired deletes all entries whose TTL has passed.
func (s *KVStore) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.db.Queries().KVSweepExpired(ctx, sql.NullInt64{Int64: s.now().UnixNano(), Valid: true})
	if err != nil {
		return 0, storageError("kv sweep expired", err)
	}
	return n, nil
}

func (s *KVStore) load(ctx context.Context, q *db.Queries, key string) (db.KvStore, error) {
	row, err := q.KVGet(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return db.KvStore{}, fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}
	if err != nil {
		return db.KvStore{}, storageError("kv get", err)
	}

	if row.ExpiresAt.Valid && row.ExpiresAt.Int64 < s.now().UnixNano() {
		_ = q.KVDelete(ctx, key)
		return db.KvStore{}, fmt.Errorf("kv get %q: %w", key, kv.ErrNotFound)
	}

	return row, nil
}

func (s *KVStore) set(ctx context.Context, q *db.Queries, key string, value any, expiresAt sql.NullInt64) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	now := s.now().UnixNano()
	if err := q.KVSet(ctx, db.KVSetParams{
		Key:       key,
		Value:     data,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return storageError("kv set", err)
	}

	return nil
}

func (s *KVStore) expiry(ttl time.Duration) sql.NullInt64 {
	return sql.NullInt64{Int64: s.now().Add(ttl).UnixNano(), Valid: true}
}
