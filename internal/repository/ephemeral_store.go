package repository

import (
	"context"
	"time"
)

// EphemeralWriter collects writes that an EphemeralStore applies as one unit.
type EphemeralWriter interface {
	Set(key string, value []byte, ttl time.Duration)
	Delete(keys ...string)
	HSet(key, field string, value []byte)
	HDel(key string, fields ...string)
	Expire(key string, ttl time.Duration)
}

// HashPrune names one hash field to drop if it is still stale when the prune
// runs. The field is removed when GuardKey is set and no longer exists, or
// when Value is set and the field still holds exactly those bytes.
type HashPrune struct {
	Field    string
	GuardKey string
	Value    []byte
}

// EphemeralStore is the shared key-value service with per-key TTL that backs
// presence, availability and full-day state. Entries expire on their own;
// there is nothing to tear down.
type EphemeralStore interface {
	// Get returns domain.ErrCacheMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Exists reports liveness of each key, in order.
	Exists(ctx context.Context, keys ...string) ([]bool, error)
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
	// Write applies every write queued by fn in a single round trip. Writes
	// from one call are never observed partially by other Write calls.
	Write(ctx context.Context, fn func(w EphemeralWriter)) error
	// PruneHash evaluates and applies every HashPrune of key atomically with
	// respect to Write, so a field rewritten after it was read is kept.
	PruneHash(ctx context.Context, key string, prunes []HashPrune) error
}
