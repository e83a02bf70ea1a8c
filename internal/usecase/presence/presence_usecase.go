package presence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/gdugdh24/sitter-presence-backend/pkg/geo"
	"github.com/rs/zerolog"
)

// Restorer refills a sitter's day-level availability from durable rules.
type Restorer interface {
	Restore(ctx context.Context, sitterID string) error
}

type PresenceUseCase struct {
	presenceRepo     repository.PresenceRepository
	availabilityRepo repository.AvailabilityRepository
	userRepo         repository.UserRepository
	restorer         Restorer
	logger           zerolog.Logger
	now              func() time.Time
}

func NewPresenceUseCase(
	presenceRepo repository.PresenceRepository,
	availabilityRepo repository.AvailabilityRepository,
	userRepo repository.UserRepository,
	restorer Restorer,
	logger zerolog.Logger,
) *PresenceUseCase {
	return &PresenceUseCase{
		presenceRepo:     presenceRepo,
		availabilityRepo: availabilityRepo,
		userRepo:         userRepo,
		restorer:         restorer,
		logger:           logger.With().Str("component", "presence").Logger(),
		now:              time.Now,
	}
}

// UpdateLocationRequest is the heartbeat a sitter sends with its position.
type UpdateLocationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	Address   *string  `json:"address" binding:"omitempty,max=500"`
	IsOnline  *bool    `json:"is_online"`
}

// UpdateLocation overwrites the sitter's presence record and index entry.
func (uc *PresenceUseCase) UpdateLocation(ctx context.Context, sitterID string, req *UpdateLocationRequest) (*domain.PresenceRecord, error) {
	verr := domain.NewValidationError()
	if req.Latitude == nil {
		verr.Add("latitude", "The latitude field is required.")
	} else if !geo.ValidLatitude(*req.Latitude) {
		verr.Add("latitude", "The latitude must be between -90 and 90.")
	}
	if req.Longitude == nil {
		verr.Add("longitude", "The longitude field is required.")
	} else if !geo.ValidLongitude(*req.Longitude) {
		verr.Add("longitude", "The longitude must be between -180 and 180.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	lat, lon := *req.Latitude, *req.Longitude

	address := ""
	if req.Address != nil {
		address = strings.TrimSpace(*req.Address)
	}
	if address == "" {
		address = formatCoordinates(lat, lon)
	}

	online := true
	if req.IsOnline != nil {
		online = *req.IsOnline
	}

	snapshot, err := uc.snapshot(ctx, sitterID)
	if err != nil {
		return nil, err
	}

	now := uc.now().UTC()
	rec := &domain.PresenceRecord{
		SitterID:  sitterID,
		Snapshot:  snapshot,
		Latitude:  lat,
		Longitude: lon,
		Address:   address,
		IsOnline:  online,
		LastSeen:  now,
		UpdatedAt: now,
	}
	if err := uc.presenceRepo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	metrics.PresenceUpdates.WithLabelValues(strconv.FormatBool(online)).Inc()

	return rec, nil
}

// SetOnlineStatus flips the online flag of an existing presence record.
// Going online refills availability from weekly rules; going offline drops
// the cached day-level availability.
func (uc *PresenceUseCase) SetOnlineStatus(ctx context.Context, sitterID string, online bool) (*domain.PresenceRecord, error) {
	rec, err := uc.presenceRepo.Get(ctx, sitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to read presence: %w", err)
	}
	if rec == nil {
		return nil, domain.ErrPresenceNotFound
	}

	now := uc.now().UTC()
	rec.IsOnline = online
	rec.LastSeen = now
	rec.UpdatedAt = now
	if err := uc.presenceRepo.Upsert(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	metrics.PresenceUpdates.WithLabelValues(strconv.FormatBool(online)).Inc()

	if online {
		if err := uc.restorer.Restore(ctx, sitterID); err != nil {
			uc.logger.Warn().Err(err).Str("sitter_id", sitterID).Msg("failed to restore availability")
		}
		return rec, nil
	}

	if err := uc.availabilityRepo.Delete(ctx, sitterID); err != nil {
		uc.logger.Warn().Err(err).Str("sitter_id", sitterID).Msg("failed to clear availability")
	}
	return rec, nil
}

// snapshot copies display fields from the directory. When the directory is
// unreachable the previous cached snapshot is kept.
func (uc *PresenceUseCase) snapshot(ctx context.Context, sitterID string) (domain.SitterSnapshot, error) {
	user, err := uc.userRepo.GetByID(ctx, sitterID)
	if err == nil {
		return user.Snapshot(), nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		uc.logger.Warn().Err(err).Str("sitter_id", sitterID).Msg("directory lookup failed, keeping cached snapshot")
	}

	prev, perr := uc.presenceRepo.Get(ctx, sitterID)
	if perr != nil {
		return domain.SitterSnapshot{}, fmt.Errorf("failed to read presence: %w", perr)
	}
	if prev != nil {
		return prev.Snapshot, nil
	}
	return domain.SitterSnapshot{}, nil
}

func formatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}
