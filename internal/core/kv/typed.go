package kv

import (
	"context"
	"errors"
	"time"
)

// TypedKV stores values of one type under a "namespace:" key prefix, so
// job state such as sweep reports never collides with leases.
type TypedKV[T any] struct {
	store  KV
	prefix string
}

// Scoped wraps store for values of type T under namespace.
func Scoped[T any](store KV, namespace string) *TypedKV[T] {
	return &TypedKV[T]{store: store, prefix: namespace + ":"}
}

func (t *TypedKV[T]) key(k string) string { return t.prefix + k }

// Get decodes the value at key. Missing or expired keys return ErrNotFound.
func (t *TypedKV[T]) Get(ctx context.Context, key string) (T, error) {
	var v T
	err := t.store.Get(ctx, t.key(key), &v)
	return v, err
}

// Lookup is Get with a found flag in place of ErrNotFound.
func (t *TypedKV[T]) Lookup(ctx context.Context, key string) (T, bool, error) {
	v, err := t.Get(ctx, key)
	switch {
	case errors.Is(err, ErrNotFound):
		return v, false, nil
	case err != nil:
		return v, false, err
	}
	return v, true, nil
}

func (t *TypedKV[T]) Set(ctx context.Context, key string, value T) error {
	return t.store.Set(ctx, t.key(key), value)
}

// SetTTL stores value until ttl elapses; a non-positive ttl expires it at once.
func (t *TypedKV[T]) SetTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	return t.store.SetTTL(ctx, t.key(key), value, ttl)
}

func (t *TypedKV[T]) Delete(ctx context.Context, key string) error {
	return t.store.Delete(ctx, t.key(key))
}
