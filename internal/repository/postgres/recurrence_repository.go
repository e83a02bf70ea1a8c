package postgres

import (
	"context"
	"fmt"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type recurrenceRepository struct {
	db *sqlx.DB
}

func NewRecurrenceRepository(db *sqlx.DB) repository.RecurrenceRepository {
	return &recurrenceRepository{db: db}
}

func (r *recurrenceRepository) ListBySitter(ctx context.Context, sitterID string) ([]domain.WeeklyRule, error) {
	var rules []domain.WeeklyRule
	query := `
		SELECT id, sitter_id, week_id,
		       to_char(start_date, 'YYYY-MM-DD') AS start_date,
		       to_char(end_date, 'YYYY-MM-DD') AS end_date,
		       start_time, end_time, is_weekly, created_at
		FROM weekly_availabilities
		WHERE sitter_id = $1
		ORDER BY start_date, id
	`
	if err := r.db.SelectContext(ctx, &rules, query, sitterID); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *recurrenceRepository) Replace(ctx context.Context, sitterID string, rules []domain.WeeklyRule) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_availabilities WHERE sitter_id = $1`, sitterID); err != nil {
		return fmt.Errorf("failed to delete weekly availability: %w", err)
	}

	query := `
		INSERT INTO weekly_availabilities (sitter_id, week_id, start_date, end_date, start_time, end_time, is_weekly)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	for i := range rules {
		rule := &rules[i]
		rule.SitterID = sitterID
		err := tx.QueryRowContext(ctx, query,
			sitterID, rule.WeekID, rule.StartDate, rule.EndDate,
			rule.StartTime, rule.EndTime, rule.IsWeekly,
		).Scan(&rule.ID, &rule.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert weekly availability %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit weekly availability: %w", err)
	}
	return nil
}
