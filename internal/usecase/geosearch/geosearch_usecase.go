package geosearch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/infrastructure/metrics"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/gdugdh24/sitter-presence-backend/pkg/geo"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type Config struct {
	DefaultRadiusKm float64
	MinRadiusKm     float64
	MaxRadiusKm     float64
	// LookupConcurrency bounds parallel directory lookups per search.
	LookupConcurrency int
}

func DefaultConfig() Config {
	return Config{
		DefaultRadiusKm:   2,
		MinRadiusKm:       0.1,
		MaxRadiusKm:       50,
		LookupConcurrency: 8,
	}
}

type GeoSearchUseCase struct {
	presenceRepo repository.PresenceRepository
	userRepo     repository.UserRepository
	cfg          Config
	logger       zerolog.Logger
}

func NewGeoSearchUseCase(
	presenceRepo repository.PresenceRepository,
	userRepo repository.UserRepository,
	cfg Config,
	logger zerolog.Logger,
) *GeoSearchUseCase {
	if cfg.LookupConcurrency <= 0 {
		cfg.LookupConcurrency = 1
	}
	return &GeoSearchUseCase{
		presenceRepo: presenceRepo,
		userRepo:     userRepo,
		cfg:          cfg,
		logger:       logger.With().Str("component", "geosearch").Logger(),
	}
}

// NearbyRequest is the body of a nearby-sitters search.
type NearbyRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
	RadiusKm  *float64 `json:"radius_km"`
}

type NearbyResponse struct {
	Sitters  []*SitterSummary `json:"sitters"`
	Count    int              `json:"count"`
	RadiusKm float64          `json:"radius_km"`
}

// FindNearby returns online sitters within the requested radius, closest first.
func (uc *GeoSearchUseCase) FindNearby(ctx context.Context, req *NearbyRequest) (*NearbyResponse, error) {
	query, err := uc.buildQuery(req)
	if err != nil {
		return nil, err
	}

	records, err := uc.presenceRepo.ListOnline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list online sitters: %w", err)
	}

	type candidate struct {
		rec      *domain.PresenceRecord
		distance float64
	}

	emitted := make(map[string]struct{}, len(records))
	candidates := make([]candidate, 0, len(records))
	for _, rec := range records {
		if rec == nil || !rec.IsOnline {
			continue
		}
		if _, dup := emitted[rec.SitterID]; dup {
			continue
		}

		d := geo.DistanceKm(query.Latitude, query.Longitude, rec.Latitude, rec.Longitude)
		if d > query.RadiusKm {
			continue
		}
		emitted[rec.SitterID] = struct{}{}
		candidates = append(candidates, candidate{rec: rec, distance: d})
	}

	enriched := make([]*SitterSummary, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.cfg.LookupConcurrency)
	for i, c := range candidates {
		g.Go(func() error {
			enriched[i] = uc.enrich(gctx, c.rec, c.distance)
			return nil
		})
	}
	_ = g.Wait()

	sitters := make([]*SitterSummary, 0, len(enriched))
	for _, s := range enriched {
		if s != nil {
			sitters = append(sitters, s)
		}
	}
	sortByDistance(sitters)

	metrics.NearbySearches.Inc()
	metrics.NearbyResults.Observe(float64(len(sitters)))

	return &NearbyResponse{
		Sitters:  sitters,
		Count:    len(sitters),
		RadiusKm: query.RadiusKm,
	}, nil
}

func (uc *GeoSearchUseCase) buildQuery(req *NearbyRequest) (domain.GeoQuery, error) {
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

	radius := uc.cfg.DefaultRadiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
		if radius < uc.cfg.MinRadiusKm || radius > uc.cfg.MaxRadiusKm {
			verr.Add("radius_km", fmt.Sprintf("The radius must be between %g and %g km.", uc.cfg.MinRadiusKm, uc.cfg.MaxRadiusKm))
		}
	}
	if err := verr.OrNil(); err != nil {
		return domain.GeoQuery{}, err
	}

	return domain.GeoQuery{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		RadiusKm:  radius,
	}, nil
}

// enrich builds the summary for one in-radius record. It returns nil when the
// directory says the sitter must be hidden.
func (uc *GeoSearchUseCase) enrich(ctx context.Context, rec *domain.PresenceRecord, distance float64) *SitterSummary {
	summary := summaryFromPresence(rec)

	user, err := uc.userRepo.GetByID(ctx, rec.SitterID)
	switch {
	case err == nil && user != nil:
		if user.IsRestricted() {
			return nil
		}
		applyDirectory(summary, user)
	default:
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			uc.logger.Warn().Err(err).Str("sitter_id", rec.SitterID).Msg("directory lookup failed, using cached snapshot")
		}
		summary.IsVerified = false
		summary.VerificationStatus = domain.VerificationPending
		metrics.DirectoryFallbacks.Inc()
	}

	summary.Distance = formatDistance(distance)
	summary.distanceKm = parseDistance(summary.Distance)
	return summary
}

func formatDistance(km float64) string {
	return strconv.FormatFloat(geo.RoundTo(km, 1), 'f', 1, 64) + " km"
}

// parseDistance reads the numeric part back out of a formatted distance so
// ordering always agrees with what the client sees.
func parseDistance(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, "km")), 64)
	if err != nil {
		return 0
	}
	return v
}

// sortByDistance orders ascending by displayed distance; equal distances are
// ordered by sitter id.
func sortByDistance(sitters []*SitterSummary) {
	sort.Slice(sitters, func(i, j int) bool {
		if sitters[i].distanceKm != sitters[j].distanceKm {
			return sitters[i].distanceKm < sitters[j].distanceKm
		}
		return sitters[i].ID < sitters[j].ID
	})
}

// SitterSummary is one search result.
type SitterSummary struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Location           Location  `json:"location"`
	Specialties        []string  `json:"specialties"`
	Experience         string    `json:"experience"`
	PetTypes           []string  `json:"petTypes"`
	Breeds             []string  `json:"breeds"`
	HourlyRate         float64   `json:"hourlyRate"`
	MaxPets            int       `json:"maxPets"`
	Rating             float64   `json:"rating"`
	Reviews            int       `json:"reviews"`
	Bio                string    `json:"bio"`
	IsOnline           bool      `json:"isOnline"`
	LastSeen           time.Time `json:"lastSeen"`
	Distance           string    `json:"distance"`
	ProfileImage       string    `json:"profileImage"`
	Images             []string  `json:"images"`
	Followers          int       `json:"followers"`
	Following          int       `json:"following"`
	IsVerified         bool      `json:"isVerified"`
	VerificationStatus string    `json:"verificationStatus"`

	distanceKm float64
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}
