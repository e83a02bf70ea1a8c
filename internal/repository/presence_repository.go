package repository

import (
	"context"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
)

type PresenceRepository interface {
	// Get returns nil, nil when the sitter has no live record.
	Get(ctx context.Context, sitterID string) (*domain.PresenceRecord, error)
	// Upsert writes the record and, in the same call, adds it to the online
	// index when rec.IsOnline or removes it from the index otherwise.
	Upsert(ctx context.Context, rec *domain.PresenceRecord) error
	// ListOnline returns index entries whose record is still live.
	ListOnline(ctx context.Context) ([]*domain.PresenceRecord, error)
}
