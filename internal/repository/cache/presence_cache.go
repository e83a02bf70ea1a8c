package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
)

const (
	presenceKeyPrefix = "sitter_location:"
	onlineIndexKey    = "online_sitters"
)

func presenceKey(sitterID string) string {
	return presenceKeyPrefix + sitterID
}

type presenceCache struct {
	store repository.EphemeralStore
	ttl   time.Duration
}

// NewPresenceCache stores one record per sitter plus the online index. Both
// share ttl; the index TTL is refreshed on every online write.
func NewPresenceCache(store repository.EphemeralStore, ttl time.Duration) repository.PresenceRepository {
	return &presenceCache{store: store, ttl: ttl}
}

func (c *presenceCache) Get(ctx context.Context, sitterID string) (*domain.PresenceRecord, error) {
	raw, err := c.store.Get(ctx, presenceKey(sitterID))
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read presence: %w", err)
	}

	var rec domain.PresenceRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode presence: %w", err)
	}
	return &rec, nil
}

func (c *presenceCache) Upsert(ctx context.Context, rec *domain.PresenceRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode presence: %w", err)
	}

	err = c.store.Write(ctx, func(w repository.EphemeralWriter) {
		w.Set(presenceKey(rec.SitterID), data, c.ttl)
		if rec.IsOnline {
			w.HSet(onlineIndexKey, rec.SitterID, data)
			w.Expire(onlineIndexKey, c.ttl)
		} else {
			w.HDel(onlineIndexKey, rec.SitterID)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to write presence: %w", err)
	}
	return nil
}

func (c *presenceCache) ListOnline(ctx context.Context) ([]*domain.PresenceRecord, error) {
	entries, err := c.store.HGetAll(ctx, onlineIndexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read online index: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(entries))
	for id := range entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = presenceKey(id)
	}
	live, err := c.store.Exists(ctx, keys...)
	if err != nil {
		return nil, fmt.Errorf("failed to check presence records: %w", err)
	}

	var (
		out   = make([]*domain.PresenceRecord, 0, len(ids))
		stale []repository.HashPrune
	)
	for i, id := range ids {
		if !live[i] {
			stale = append(stale, repository.HashPrune{Field: id, GuardKey: keys[i]})
			continue
		}
		var rec domain.PresenceRecord
		if err := json.Unmarshal(entries[id], &rec); err != nil {
			stale = append(stale, repository.HashPrune{Field: id, Value: entries[id]})
			continue
		}
		out = append(out, &rec)
	}

	// Records expired without an explicit offline signal. The prune re-checks
	// each field so a heartbeat landing after the scan keeps its entry.
	if len(stale) > 0 {
		_ = c.store.PruneHash(ctx, onlineIndexKey, stale)
	}

	return out, nil
}
