package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
)

const (
	availabilityKeyPrefix = "sitter_availability:"
	weeklyKeyPrefix       = "sitter_weekly_availability:"
	fullDayKeyPrefix      = "sitter_full:"
)

type availabilityCache struct {
	store repository.EphemeralStore
	ttl   time.Duration
}

func NewAvailabilityCache(store repository.EphemeralStore, ttl time.Duration) repository.AvailabilityRepository {
	return &availabilityCache{store: store, ttl: ttl}
}

func (c *availabilityCache) Get(ctx context.Context, sitterID string) (domain.AvailabilityMap, error) {
	slots := make(domain.AvailabilityMap)

	raw, err := c.store.Get(ctx, availabilityKeyPrefix+sitterID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return slots, nil
		}
		return nil, fmt.Errorf("failed to read availability: %w", err)
	}
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode availability: %w", err)
	}
	return slots, nil
}

func (c *availabilityCache) Save(ctx context.Context, sitterID string, slots domain.AvailabilityMap) error {
	data, err := json.Marshal(slots)
	if err != nil {
		return fmt.Errorf("failed to encode availability: %w", err)
	}
	return c.store.Write(ctx, func(w repository.EphemeralWriter) {
		w.Set(availabilityKeyPrefix+sitterID, data, c.ttl)
	})
}

func (c *availabilityCache) Delete(ctx context.Context, sitterID string) error {
	return c.store.Write(ctx, func(w repository.EphemeralWriter) {
		w.Delete(availabilityKeyPrefix + sitterID)
	})
}

type weeklyCache struct {
	store repository.EphemeralStore
	ttl   time.Duration
}

// NewWeeklyCache keeps a read copy of the durable weekly rules.
func NewWeeklyCache(store repository.EphemeralStore, ttl time.Duration) repository.WeeklyCacheRepository {
	return &weeklyCache{store: store, ttl: ttl}
}

func (c *weeklyCache) Get(ctx context.Context, sitterID string) ([]domain.WeeklyRule, bool, error) {
	raw, err := c.store.Get(ctx, weeklyKeyPrefix+sitterID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read weekly cache: %w", err)
	}

	var rules []domain.WeeklyRule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, false, fmt.Errorf("failed to decode weekly cache: %w", err)
	}
	return rules, true, nil
}

func (c *weeklyCache) Save(ctx context.Context, sitterID string, rules []domain.WeeklyRule) error {
	if rules == nil {
		rules = []domain.WeeklyRule{}
	}
	data, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("failed to encode weekly cache: %w", err)
	}
	return c.store.Write(ctx, func(w repository.EphemeralWriter) {
		w.Set(weeklyKeyPrefix+sitterID, data, c.ttl)
	})
}

type fullDayCache struct {
	store repository.EphemeralStore
	ttl   time.Duration
}

func NewFullDayCache(store repository.EphemeralStore, ttl time.Duration) repository.FullDayRepository {
	return &fullDayCache{store: store, ttl: ttl}
}

func fullDayKey(sitterID, date string) string {
	return fullDayKeyPrefix + sitterID + ":" + date
}

func (c *fullDayCache) Set(ctx context.Context, flag *domain.FullDayFlag) error {
	data, err := json.Marshal(flag)
	if err != nil {
		return fmt.Errorf("failed to encode full-day flag: %w", err)
	}
	return c.store.Write(ctx, func(w repository.EphemeralWriter) {
		w.Set(fullDayKey(flag.SitterID, flag.Date), data, c.ttl)
	})
}

func (c *fullDayCache) Delete(ctx context.Context, sitterID, date string) error {
	return c.store.Write(ctx, func(w repository.EphemeralWriter) {
		w.Delete(fullDayKey(sitterID, date))
	})
}

func (c *fullDayCache) Exists(ctx context.Context, sitterID, date string) (bool, error) {
	live, err := c.store.Exists(ctx, fullDayKey(sitterID, date))
	if err != nil {
		return false, err
	}
	return live[0], nil
}
