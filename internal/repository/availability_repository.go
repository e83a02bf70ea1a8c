package repository

import (
	"context"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
)

type AvailabilityRepository interface {
	// Get returns an empty map when nothing is cached.
	Get(ctx context.Context, sitterID string) (domain.AvailabilityMap, error)
	Save(ctx context.Context, sitterID string, slots domain.AvailabilityMap) error
	Delete(ctx context.Context, sitterID string) error
}

type WeeklyCacheRepository interface {
	// Get reports found=false on a cache miss.
	Get(ctx context.Context, sitterID string) (rules []domain.WeeklyRule, found bool, err error)
	Save(ctx context.Context, sitterID string, rules []domain.WeeklyRule) error
}

type FullDayRepository interface {
	Set(ctx context.Context, flag *domain.FullDayFlag) error
	Delete(ctx context.Context, sitterID, date string) error
	Exists(ctx context.Context, sitterID, date string) (bool, error)
}

type RecurrenceRepository interface {
	ListBySitter(ctx context.Context, sitterID string) ([]domain.WeeklyRule, error)
	// Replace deletes every rule of the sitter and inserts rules in one transaction.
	Replace(ctx context.Context, sitterID string, rules []domain.WeeklyRule) error
}
