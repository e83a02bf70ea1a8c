package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gdugdh24/sitter-presence-backend/internal/domain"
	"github.com/gdugdh24/sitter-presence-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type notificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository stores notifications for the delivery workers
// that push them to devices.
func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	data, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("failed to encode notification data: %w", err)
	}

	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query, n.ID, n.RecipientID, n.Type, n.Title, n.Message, data).
		Scan(&n.CreatedAt)
}
