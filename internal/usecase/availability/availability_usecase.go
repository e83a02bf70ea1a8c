package availability

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Config struct {
	// Location decides which calendar day is "today".
	Location *time.Location
	// FanoutTimeout bounds one full-day notification fanout.
	FanoutTimeout time.Duration
	// Horizon bounds how far ahead Restore expands weekly rules. Days past
	// it would outlive the availability cache entry anyway.
	Horizon time.Duration
}

const defaultHorizon = 30 * 24 * time.Hour

type AvailabilityUseCase struct {
	availabilityRepo repository.AvailabilityRepository
	weeklyCache      repository.WeeklyCacheRepository
	recurrenceRepo   repository.RecurrenceRepository
	fullDayRepo      repository.FullDayRepository
	presenceRepo     repository.PresenceRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	cfg              Config
	logger           zerolog.Logger
	now              func() time.Time
	dispatch         func(task func())
}

type Option func(*AvailabilityUseCase)

func WithClock(now func() time.Time) Option {
	return func(uc *AvailabilityUseCase) { uc.now = now }
}

// WithDispatcher replaces the goroutine launcher used for notification fanout.
func WithDispatcher(dispatch func(task func())) Option {
	return func(uc *AvailabilityUseCase) { uc.dispatch = dispatch }
}

func NewAvailabilityUseCase(
	availabilityRepo repository.AvailabilityRepository,
	weeklyCache repository.WeeklyCacheRepository,
	recurrenceRepo repository.RecurrenceRepository,
	fullDayRepo repository.FullDayRepository,
	presenceRepo repository.PresenceRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	cfg Config,
	logger zerolog.Logger,
	opts ...Option,
) *AvailabilityUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.FanoutTimeout <= 0 {
		cfg.FanoutTimeout = 30 * time.Second
	}
	if cfg.Horizon < 24*time.Hour {
		cfg.Horizon = defaultHorizon
	}
	uc := &AvailabilityUseCase{
		availabilityRepo: availabilityRepo,
		weeklyCache:      weeklyCache,
		recurrenceRepo:   recurrenceRepo,
		fullDayRepo:      fullDayRepo,
		presenceRepo:     presenceRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		cfg:              cfg,
		logger:           logger.With().Str("component", "availability").Logger(),
		now:              time.Now,
		dispatch:         func(task func()) { go task() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

type SaveAvailabilityRequest struct {
	Availabilities []domain.DayAvailability `json:"availabilities" binding:"required,dive"`
}

type WeeklyRuleInput struct {
	WeekID    string `json:"weekId"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	EndTime   string `json:"endTime" binding:"required"`
	IsWeekly  bool   `json:"isWeekly"`
}

type SaveWeeklyRequest struct {
	Availabilities []WeeklyRuleInput `json:"availabilities" binding:"required,dive"`
}

// GetAvailability returns the cached slots ordered by date. A sitter with
// nothing cached gets an empty list.
func (uc *AvailabilityUseCase) GetAvailability(ctx context.Context, sitterID string) ([]domain.DayAvailability, error) {
	slots, err := uc.availabilityRepo.Get(ctx, sitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}
	return toList(slots), nil
}

// SaveAvailability replaces the sitter's whole cached map.
func (uc *AvailabilityUseCase) SaveAvailability(ctx context.Context, sitterID string, req *SaveAvailabilityRequest) ([]domain.DayAvailability, error) {
	verr := domain.NewValidationError()
	slots := make(domain.AvailabilityMap, len(req.Availabilities))
	for i, day := range req.Availabilities {
		field := fmt.Sprintf("availabilities.%d", i)
		if _, err := parseDate(day.Date, uc.cfg.Location); err != nil {
			verr.Add(field+".date", fmt.Sprintf("The date %q must be in YYYY-MM-DD format.", day.Date))
			continue
		}
		for j, r := range day.TimeRanges {
			validateRange(verr, fmt.Sprintf("%s.timeRanges.%d", field, j), r)
		}
		ranges := day.TimeRanges
		if ranges == nil {
			ranges = []domain.TimeRange{}
		}
		slots[strings.TrimSpace(day.Date)] = ranges
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := uc.availabilityRepo.Save(ctx, sitterID, slots); err != nil {
		return nil, fmt.Errorf("failed to save availability: %w", err)
	}
	return toList(slots), nil
}

// Restore rebuilds the day-level cache from durable weekly rules. Without
// rules the existing cache is left as is, so same-session availability that
// never became a weekly rule survives.
func (uc *AvailabilityUseCase) Restore(ctx context.Context, sitterID string) error {
	rules, err := uc.recurrenceRepo.ListBySitter(ctx, sitterID)
	if err != nil {
		return fmt.Errorf("failed to load weekly availability: %w", err)
	}
	if len(rules) == 0 {
		return nil
	}

	slots := ExpandRules(rules, uc.today(), int(uc.cfg.Horizon/(24*time.Hour)))
	if err := uc.availabilityRepo.Save(ctx, sitterID, slots); err != nil {
		return fmt.Errorf("failed to restore availability: %w", err)
	}

	uc.logger.Debug().Str("sitter_id", sitterID).Int("rules", len(rules)).Int("days", len(slots)).Msg("availability restored")
	return nil
}

// GetWeeklyRecurrence serves the cached copy of the rules, falling back to
// the database and re-warming the cache.
func (uc *AvailabilityUseCase) GetWeeklyRecurrence(ctx context.Context, sitterID string) ([]domain.WeeklyRule, error) {
	rules, found, err := uc.weeklyCache.Get(ctx, sitterID)
	if err != nil {
		uc.logger.Warn().Err(err).Str("sitter_id", sitterID).Msg("weekly cache read failed")
	}
	if found {
		return nonNilRules(rules), nil
	}

	rules, err = uc.recurrenceRepo.ListBySitter(ctx, sitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly availability: %w", err)
	}
	if err := uc.weeklyCache.Save(ctx, sitterID, rules); err != nil {
		uc.logger.Warn().Err(err).Str("sitter_id", sitterID).Msg("weekly cache refresh failed")
	}
	return nonNilRules(rules), nil
}

// SaveWeeklyRecurrence validates every rule, then replaces the sitter's rule
// set. One invalid rule rejects the whole batch.
func (uc *AvailabilityUseCase) SaveWeeklyRecurrence(ctx context.Context, sitterID string, req *SaveWeeklyRequest) ([]domain.WeeklyRule, error) {
	verr := domain.NewValidationError()
	rules := make([]domain.WeeklyRule, 0, len(req.Availabilities))
	for i, in := range req.Availabilities {
		field := fmt.Sprintf("availabilities.%d", i)

		start, serr := ParseClock(in.StartTime)
		end, eerr := ParseClock(in.EndTime)
		switch {
		case serr != nil || eerr != nil:
			verr.Add(field, fmt.Sprintf("Rule %d: invalid time range (%s - %s).", i, in.StartTime, in.EndTime))
		case start >= end:
			verr.Add(field, fmt.Sprintf("Rule %d: start time (%s) must be before end time (%s).", i, in.StartTime, in.EndTime))
		}

		startDate, sderr := parseDate(in.StartDate, uc.cfg.Location)
		if sderr != nil {
			verr.Add(field+".startDate", fmt.Sprintf("Rule %d: start date %q must be in YYYY-MM-DD format.", i, in.StartDate))
		}
		endDate, ederr := parseDate(in.EndDate, uc.cfg.Location)
		if ederr != nil {
			verr.Add(field+".endDate", fmt.Sprintf("Rule %d: end date %q must be in YYYY-MM-DD format.", i, in.EndDate))
		}
		if sderr == nil && ederr == nil && endDate.Before(startDate) {
			verr.Add(field+".endDate", fmt.Sprintf("Rule %d: end date (%s) must not be before start date (%s).", i, in.EndDate, in.StartDate))
		}

		weekID := strings.TrimSpace(in.WeekID)
		if weekID == "" {
			weekID = uuid.NewString()
		}
		rules = append(rules, domain.WeeklyRule{
			SitterID:  sitterID,
			WeekID:    weekID,
			StartDate: strings.TrimSpace(in.StartDate),
			EndDate:   strings.TrimSpace(in.EndDate),
			StartTime: strings.TrimSpace(in.StartTime),
			EndTime:   strings.TrimSpace(in.EndTime),
			IsWeekly:  in.IsWeekly,
		})
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := uc.recurrenceRepo.Replace(ctx, sitterID, rules); err != nil {
		return nil, fmt.Errorf("failed to save weekly availability: %w", err)
	}
	if err := uc.weeklyCache.Save(ctx, sitterID, rules); err != nil {
		uc.logger.Warn().Err(err).Str("sitter_id", sitterID).Msg("weekly cache refresh failed")
	}
	return rules, nil
}

func (uc *AvailabilityUseCase) today() time.Time {
	return uc.now().In(uc.cfg.Location)
}

func toList(slots domain.AvailabilityMap) []domain.DayAvailability {
	out := make([]domain.DayAvailability, 0, len(slots))
	for date, ranges := range slots {
		if ranges == nil {
			ranges = []domain.TimeRange{}
		}
		out = append(out, domain.DayAvailability{Date: date, TimeRanges: ranges})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func nonNilRules(rules []domain.WeeklyRule) []domain.WeeklyRule {
	if rules == nil {
		return []domain.WeeklyRule{}
	}
	return rules
}
