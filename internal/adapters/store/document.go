// Package store implements the local key-value persistence used by the
// personalization engine: raw byte stores (SQLite, memory), a typed JSON
// document layer on top of them, and the user and session repositories.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/inspirehub/internal/ports"
)

// SchemaVersion is the envelope version written by this build.
const SchemaVersion = 1

// envelope wraps every persisted document.
type envelope struct {
	Version *int            `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Document is a typed JSON value stored under a single key.
//
// Read never fails. An unavailable store, bytes that are not JSON, an
// unsupported schema version, or a value rejected by the sanitize hook are
// all logged and reported as absent.
type Document[T any] struct {
	kv       ports.KeyValueStore
	key      string
	sanitize func(T) (T, error)
	logger   *slog.Logger
}

// DocumentOption configures a Document.
type DocumentOption[T any] func(*Document[T])

// WithSanitizer installs a hook run on every decoded value. It may repair the
// value or reject it with an error, which makes the read report absent.
func WithSanitizer[T any](fn func(T) (T, error)) DocumentOption[T] {
	return func(d *Document[T]) {
		d.sanitize = fn
	}
}

// NewDocument binds a typed document to key.
func NewDocument[T any](kv ports.KeyValueStore, key string, logger *slog.Logger, opts ...DocumentOption[T]) *Document[T] {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Document[T]{
		kv:     kv,
		key:    key,
		logger: logger.With(slog.String("key", key)),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Key returns the store key this document is bound to.
func (d *Document[T]) Key() string {
	return d.key
}

// Read returns the decoded value and whether one was present and valid.
func (d *Document[T]) Read(ctx context.Context) (T, bool) {
	var zero T

	raw, err := d.kv.Get(ctx, d.key)
	if err != nil {
		d.logger.WarnContext(ctx, "store unavailable, treating value as absent", slog.Any("error", err))
		return zero, false
	}

	if raw == nil {
		return zero, false
	}

	value, err := d.decode(raw)
	if err != nil {
		d.logger.WarnContext(ctx, "discarding unreadable value", slog.Any("error", err))
		return zero, false
	}

	return value, true
}

// Write encodes value in the current envelope and stores it.
func (d *Document[T]) Write(ctx context.Context, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", d.key, err)
	}

	version := SchemaVersion

	raw, err := json.Marshal(envelope{Version: &version, Data: data})
	if err != nil {
		return fmt.Errorf("encoding %s envelope: %w", d.key, err)
	}

	if err := d.kv.Set(ctx, d.key, raw); err != nil {
		return fmt.Errorf("writing %s: %w", d.key, err)
	}

	return nil
}

// Remove deletes the document.
func (d *Document[T]) Remove(ctx context.Context) error {
	if err := d.kv.Delete(ctx, d.key); err != nil {
		return fmt.Errorf("removing %s: %w", d.key, err)
	}

	return nil
}

// decode accepts the versioned envelope and, for values written before the
// envelope existed, the bare JSON payload.
func (d *Document[T]) decode(raw []byte) (T, error) {
	var (
		zero    T
		payload = json.RawMessage(raw)
	)

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Version != nil {
		if *env.Version != SchemaVersion {
			return zero, fmt.Errorf("unsupported schema version %d", *env.Version)
		}

		payload = env.Data
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		return zero, fmt.Errorf("decoding payload: %w", err)
	}

	if d.sanitize != nil {
		return d.sanitize(value)
	}

	return value, nil
}
