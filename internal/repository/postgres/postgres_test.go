package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func TestUserRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "email", "role", "profile_image",
		"specialties", "pet_types", "breeds",
		"experience", "max_pets", "hourly_rate",
		"bio", "followers", "following",
		"is_suspended", "is_banned", "verification_status",
		"avg_rating", "review_count",
	}).AddRow(
		"s1", "Ana", "ana@example.com", "sitter", "https://img/ana.png",
		"{walking,boarding}", "{dog,cat}", "{}",
		"3 years", 2, 15.5,
		"Loves dogs", 10, 4,
		false, false, "verified",
		4.5, 12,
	)
	mock.ExpectQuery(`FROM users u`).WithArgs("s1").WillReturnRows(rows)

	user, err := repo.GetByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, []string{"walking", "boarding"}, user.Specialties)
	assert.Equal(t, []string{"dog", "cat"}, user.PetTypes)
	assert.Empty(t, user.Breeds)
	assert.Equal(t, 2, user.MaxPets)
	assert.Equal(t, 15.5, user.HourlyRate)
	assert.True(t, user.IsVerified())
	assert.False(t, user.IsRestricted())
	assert.Equal(t, 4.5, user.Rating)
	assert.Equal(t, 12, user.ReviewCount)
}

func TestUserRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users u`).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_ListIDsByRole(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT id FROM users WHERE role = \$1 AND is_banned = false`).
		WithArgs("owner").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("o1").AddRow("o2"))

	ids, err := repo.ListIDsByRole(context.Background(), domain.RoleOwner)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1", "o2"}, ids)
}

func TestRecurrenceRepository_ListBySitter(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecurrenceRepository(db)
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM weekly_availabilities`).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "sitter_id", "week_id", "start_date", "end_date",
			"start_time", "end_time", "is_weekly", "created_at",
		}).AddRow(1, "s1", "w1", "2026-03-10", "2026-03-12", "9:00 AM", "5:00 PM", true, created))

	rules, err := repo.ListBySitter(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, domain.WeeklyRule{
		ID: 1, SitterID: "s1", WeekID: "w1",
		StartDate: "2026-03-10", EndDate: "2026-03-12",
		StartTime: "9:00 AM", EndTime: "5:00 PM",
		IsWeekly: true, CreatedAt: created,
	}, rules[0])
}

func TestRecurrenceRepository_ReplaceInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecurrenceRepository(db)
	created := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM weekly_availabilities WHERE sitter_id = \$1`).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(`INSERT INTO weekly_availabilities`).
		WithArgs("s1", "w1", "2026-03-10", "2026-03-12", "9:00 AM", "5:00 PM", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))
	mock.ExpectQuery(`INSERT INTO weekly_availabilities`).
		WithArgs("s1", "w2", "2026-03-14", "2026-03-14", "13:00", "15:00", false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(8, created))
	mock.ExpectCommit()

	rules := []domain.WeeklyRule{
		{WeekID: "w1", StartDate: "2026-03-10", EndDate: "2026-03-12", StartTime: "9:00 AM", EndTime: "5:00 PM", IsWeekly: true},
		{WeekID: "w2", StartDate: "2026-03-14", EndDate: "2026-03-14", StartTime: "13:00", EndTime: "15:00"},
	}
	require.NoError(t, repo.Replace(context.Background(), "s1", rules))

	assert.Equal(t, 7, rules[0].ID)
	assert.Equal(t, 8, rules[1].ID)
	assert.Equal(t, "s1", rules[1].SitterID)
	assert.Equal(t, created, rules[0].CreatedAt)
}

func TestRecurrenceRepository_ReplaceRollsBackOnInsertFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecurrenceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM weekly_availabilities`).
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO weekly_availabilities`).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), "s1", []domain.WeeklyRule{
		{WeekID: "w1", StartDate: "2026-03-12", EndDate: "2026-03-10", StartTime: "9:00 AM", EndTime: "5:00 PM"},
	})
	assert.ErrorContains(t, err, "constraint violation")
}

func TestNotificationRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)
	created := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO notifications`).
		WithArgs(sqlmock.AnyArg(), "o1", domain.NotificationSitterFull, "Sitter Fully Booked", "Ana is fully booked.", []byte(`{"sitter_id":"s1"}`)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	n := &domain.Notification{
		RecipientID: "o1",
		Type:        domain.NotificationSitterFull,
		Title:       "Sitter Fully Booked",
		Message:     "Ana is fully booked.",
		Data:        map[string]any{"sitter_id": "s1"},
	}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, created, n.CreatedAt)
}
