package repository

import (
	"context"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
)

type UserRepository interface {
	// GetByID returns domain.ErrUserNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListIDsByRole(ctx context.Context, role string) ([]string, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
}
