package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	query := `
		SELECT u.id, u.name, u.email, u.role, COALESCE(u.profile_image, ''),
		       COALESCE(p.specialties, '{}'), COALESCE(p.pet_types, '{}'), COALESCE(p.breeds, '{}'),
		       COALESCE(p.experience, ''), COALESCE(p.max_pets, 0), COALESCE(p.hourly_rate, 0),
		       COALESCE(p.bio, ''), u.followers, u.following,
		       u.is_suspended, u.is_banned,
		       COALESCE(p.verification_status, 'pending'),
		       COALESCE(rv.avg_rating, 0), COALESCE(rv.review_count, 0)
		FROM users u
		LEFT JOIN sitter_profiles p ON p.user_id = u.id
		LEFT JOIN (
			SELECT sitter_id, AVG(rating)::float8 AS avg_rating, COUNT(*) AS review_count
			FROM reviews
			GROUP BY sitter_id
		) rv ON rv.sitter_id = u.id
		WHERE u.id = $1
	`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Role, &user.ProfileImage,
		pq.Array(&user.Specialties), pq.Array(&user.PetTypes), pq.Array(&user.Breeds),
		&user.Experience, &user.MaxPets, &user.HourlyRate,
		&user.Bio, &user.Followers, &user.Following,
		&user.IsSuspended, &user.IsBanned,
		&user.VerificationStatus,
		&user.Rating, &user.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	var ids []string
	query := `SELECT id FROM users WHERE role = $1 AND is_banned = false ORDER BY id`
	err := r.db.SelectContext(ctx, &ids, query, role)
	return ids, err
}
