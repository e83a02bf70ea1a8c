package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
)

const defaultSweepInterval = time.Minute

// EphemeralStore keeps entries in process memory. It is used when no Redis
// is configured and in tests. Data is lost on restart.
type EphemeralStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

type entry struct {
	value    []byte
	hash     map[string][]byte
	expireAt time.Time // zero means no expiry
}

func (e *entry) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

type Option func(*EphemeralStore)

// WithClock overrides time.Now, mainly for expiry tests.
func WithClock(now func() time.Time) Option {
	return func(s *EphemeralStore) { s.now = now }
}

// NewEphemeralStore creates the store and starts a background sweep of
// expired entries. Reads never return expired entries even between sweeps.
func NewEphemeralStore(opts ...Option) *EphemeralStore {
	s := &EphemeralStore{
		entries: make(map[string]*entry),
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.sweepLoop(defaultSweepInterval)
	return s
}

var _ repository.EphemeralStore = (*EphemeralStore)(nil)

func (s *EphemeralStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) || e.value == nil {
		return nil, domain.ErrCacheMiss
	}
	return append([]byte(nil), e.value...), nil
}

func (s *EphemeralStore) Exists(ctx context.Context, keys ...string) ([]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	out := make([]bool, len(keys))
	for i, k := range keys {
		e, ok := s.entries[k]
		out[i] = ok && !e.expired(now)
	}
	return out, nil
}

func (s *EphemeralStore) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte)
	e, ok := s.entries[key]
	if !ok || e.expired(s.now()) {
		return out, nil
	}
	for f, v := range e.hash {
		out[f] = append([]byte(nil), v...)
	}
	return out, nil
}

func (s *EphemeralStore) Write(ctx context.Context, fn func(w repository.EphemeralWriter)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&memoryWriter{s: s, now: s.now()})
	return nil
}

func (s *EphemeralStore) PruneHash(ctx context.Context, key string, prunes []repository.HashPrune) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := &memoryWriter{s: s, now: s.now()}
	e := w.live(key)
	if e == nil || e.hash == nil {
		return nil
	}
	for _, p := range prunes {
		cur, ok := e.hash[p.Field]
		if !ok {
			continue
		}
		switch {
		case p.GuardKey != "" && w.live(p.GuardKey) == nil:
		case p.Value != nil && bytes.Equal(cur, p.Value):
		default:
			continue
		}
		delete(e.hash, p.Field)
	}
	if len(e.hash) == 0 {
		delete(s.entries, key)
	}
	return nil
}

// Close stops the sweep goroutine. Calling it is optional.
func (s *EphemeralStore) Close() error {
	s.once.Do(func() { close(s.stop) })
	return nil
}

func (s *EphemeralStore) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *EphemeralStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, k)
		}
	}
}

// memoryWriter mutates entries while the store's write lock is held.
type memoryWriter struct {
	s   *EphemeralStore
	now time.Time
}

func (w *memoryWriter) live(key string) *entry {
	e, ok := w.s.entries[key]
	if !ok || e.expired(w.now) {
		return nil
	}
	return e
}

func (w *memoryWriter) Set(key string, value []byte, ttl time.Duration) {
	e := &entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expireAt = w.now.Add(ttl)
	}
	w.s.entries[key] = e
}

func (w *memoryWriter) Delete(keys ...string) {
	for _, k := range keys {
		delete(w.s.entries, k)
	}
}

func (w *memoryWriter) HSet(key, field string, value []byte) {
	e := w.live(key)
	if e == nil || e.hash == nil {
		e = &entry{hash: make(map[string][]byte)}
		w.s.entries[key] = e
	}
	e.hash[field] = append([]byte(nil), value...)
}

func (w *memoryWriter) HDel(key string, fields ...string) {
	e := w.live(key)
	if e == nil || e.hash == nil {
		return
	}
	for _, f := range fields {
		delete(e.hash, f)
	}
	if len(e.hash) == 0 {
		delete(w.s.entries, key)
	}
}

func (w *memoryWriter) Expire(key string, ttl time.Duration) {
	e := w.live(key)
	if e == nil {
		return
	}
	if ttl <= 0 {
		delete(w.s.entries, key)
		return
	}
	e.expireAt = w.now.Add(ttl)
}
