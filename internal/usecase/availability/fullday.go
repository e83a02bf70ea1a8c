package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/infrastructure/metrics"
)

const fallbackSitterName = "A sitter"

type MarkFullRequest struct {
	Date   string `json:"date" binding:"required"`
	IsFull *bool  `json:"is_full" binding:"required"`
}

type FullDayStatus struct {
	SitterID string `json:"sitter_id,omitempty"`
	Date     string `json:"date"`
	IsFull   bool   `json:"is_full"`
}

// MarkFull sets or clears the full-day flag. Setting it notifies owners in
// the background; the flag write never depends on that fanout.
func (uc *AvailabilityUseCase) MarkFull(ctx context.Context, sitterID string, req *MarkFullRequest) (*FullDayStatus, error) {
	date, err := uc.validateDate(req.Date)
	if err != nil {
		return nil, err
	}
	if req.IsFull == nil {
		verr := domain.NewValidationError()
		verr.Add("is_full", "The is_full field is required.")
		return nil, verr
	}

	if !*req.IsFull {
		if err := uc.fullDayRepo.Delete(ctx, sitterID, date); err != nil {
			return nil, fmt.Errorf("failed to clear full day: %w", err)
		}
		return &FullDayStatus{Date: date, IsFull: false}, nil
	}

	flag := &domain.FullDayFlag{
		SitterID:   sitterID,
		Date:       date,
		SitterName: uc.sitterName(ctx, sitterID),
		MarkedAt:   uc.now().UTC(),
	}
	if err := uc.fullDayRepo.Set(ctx, flag); err != nil {
		return nil, fmt.Errorf("failed to mark full day: %w", err)
	}

	uc.dispatch(func() { uc.notifyOwners(flag) })

	return &FullDayStatus{Date: date, IsFull: true}, nil
}

// IsDateFull reports whether the sitter marked date as fully booked.
func (uc *AvailabilityUseCase) IsDateFull(ctx context.Context, sitterID, date string) (*FullDayStatus, error) {
	date, err := uc.validateDate(date)
	if err != nil {
		return nil, err
	}
	full, err := uc.fullDayRepo.Exists(ctx, sitterID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check full day: %w", err)
	}
	return &FullDayStatus{SitterID: sitterID, Date: date, IsFull: full}, nil
}

// notifyOwners sends one notification per owner account. Failures are
// logged and counted; nothing is retried.
func (uc *AvailabilityUseCase) notifyOwners(flag *domain.FullDayFlag) {
	ctx, cancel := context.WithTimeout(context.Background(), uc.cfg.FanoutTimeout)
	defer cancel()

	log := uc.logger.With().Str("sitter_id", flag.SitterID).Str("date", flag.Date).Logger()

	recipients, err := uc.userRepo.ListIDsByRole(ctx, domain.RoleOwner)
	if err != nil {
		log.Error().Err(err).Msg("failed to list notification recipients")
		return
	}

	formatted := flag.Date
	if d, err := parseDate(flag.Date, uc.cfg.Location); err == nil {
		formatted = d.Format("January 2, 2006")
	}

	sent, failed := 0, 0
	for _, recipientID := range recipients {
		if recipientID == flag.SitterID {
			continue
		}
		n := &domain.Notification{
			RecipientID: recipientID,
			Type:        domain.NotificationSitterFull,
			Title:       "Sitter Fully Booked",
			Message:     fmt.Sprintf("%s is fully booked on %s.", flag.SitterName, formatted),
			Data: map[string]any{
				"sitter_id":      flag.SitterID,
				"sitter_name":    flag.SitterName,
				"date":           flag.Date,
				"formatted_date": formatted,
			},
		}
		if err := uc.notificationRepo.Create(ctx, n); err != nil {
			failed++
			metrics.Notifications.WithLabelValues("failed").Inc()
			log.Warn().Err(err).Str("recipient_id", recipientID).Msg("failed to send full-day notification")
			continue
		}
		sent++
		metrics.Notifications.WithLabelValues("sent").Inc()
	}

	log.Info().Int("sent", sent).Int("failed", failed).Msg("full-day notifications dispatched")
}

func (uc *AvailabilityUseCase) sitterName(ctx context.Context, sitterID string) string {
	user, err := uc.userRepo.GetByID(ctx, sitterID)
	if err == nil && strings.TrimSpace(user.Name) != "" {
		return user.Name
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		uc.logger.Warn().Err(err).Str("sitter_id", sitterID).Msg("directory lookup failed")
	}

	if rec, perr := uc.presenceRepo.Get(ctx, sitterID); perr == nil && rec != nil && rec.Snapshot.Name != "" {
		return rec.Snapshot.Name
	}
	return fallbackSitterName
}

func (uc *AvailabilityUseCase) validateDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if _, err := parseDate(date, uc.cfg.Location); err != nil {
		verr := domain.NewValidationError()
		verr.Add("date", fmt.Sprintf("The date %q must be in YYYY-MM-DD format.", date))
		return "", verr
	}
	return date, nil
}
