// Package storage provides named durable slots holding one JSON blob each.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"process-report/internal/logger"
)

// Store is a durable key-value backend. Get reports ok=false for an absent key.
type Store interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte) error
}

// ReadError describes a slot that could not be read or decoded. It is only
// logged; Read recovers with the caller's default.
type ReadError struct {
	Key string
	Err error
}

func (e *ReadError) Error() string { return fmt.Sprintf("read slot %q: %v", e.Key, e.Err) }
func (e *ReadError) Unwrap() error { return e.Err }

// WriteError is returned when a value could not be encoded or stored.
type WriteError struct {
	Key string
	Err error
}

func (e *WriteError) Error() string { return fmt.Sprintf("write slot %q: %v", e.Key, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Read decodes the slot at key into a T. Absent, unreadable or malformed slots
// yield def.
func Read[T any](ctx context.Context, s Store, key string, def T) T {
	data, ok, err := s.Get(ctx, key)
	if err != nil {
		logger.Warn("storage.read.failed", "err", &ReadError{Key: key, Err: err})
		return def
	}
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warn("storage.read.corrupt", "err", &ReadError{Key: key, Err: err})
		return def
	}
	return v
}

// Write replaces the slot at key with the JSON encoding of v.
func Write[T any](ctx context.Context, s Store, key string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &WriteError{Key: key, Err: err}
	}
	if err := s.Set(ctx, key, data); err != nil {
		return &WriteError{Key: key, Err: err}
	}
	return nil
}
