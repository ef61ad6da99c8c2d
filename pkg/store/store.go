package store

import (
	"context"
	"errors"
)

// Slot keys of the persisted profile.
const (
	KeyUsers            = "users"
	KeyEvents           = "events"
	KeyGroups           = "groups"
	KeyApplications     = "applications"
	KeyCurrentUserEmail = "currentUserEmail"
)

// ErrStorageCorrupt marks a slot whose stored value cannot be decoded.
// Load recovers from it by returning the fallback.
var ErrStorageCorrupt = errors.New("storage corrupt")

// Backend is a key-value store of serialized slots.
type Backend interface {
	// Get returns the raw slot value; ok is false when the slot is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
