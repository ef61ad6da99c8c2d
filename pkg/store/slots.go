package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Decode parses a slot value into T.
func Decode[T any](raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrStorageCorrupt, err)
	}
	return v, nil
}

// Load reads key and decodes it as T. It returns fallback when the slot is
// absent or empty, when the backend fails, or when the value does not decode.
// Failures are logged, never returned.
func Load[T any](ctx context.Context, b Backend, key string, fallback T) T {
	raw, ok, err := b.Get(ctx, key)
	if err != nil {
		slog.Warn("storage read failed, using fallback", "key", key, "err", err)
		return fallback
	}
	if !ok || len(bytes.TrimSpace(raw)) == 0 {
		return fallback
	}
	v, err := Decode[T](raw)
	if err != nil {
		slog.Warn("storage slot corrupt, using fallback", "key", key, "err", err)
		return fallback
	}
	return v
}

// Save encodes value as JSON and writes it to key. Failures are logged and
// swallowed.
func Save(ctx context.Context, b Backend, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		slog.Warn("storage encode failed", "key", key, "err", err)
		return
	}
	if err := b.Put(ctx, key, raw); err != nil {
		slog.Warn("storage write failed", "key", key, "err", err)
	}
}
