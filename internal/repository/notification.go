package repository

import (
	"context"

	"livestock/internal/domain"
)

// NotificationRepository defines the persistence operations for notifications.
type NotificationRepository interface {
	// Create persists a new notification.
	Create(ctx context.Context, n *domain.Notification) error

	// GetByID retrieves a notification by ID.
	GetByID(ctx context.Context, id string) (*domain.Notification, error)

	// ListByUser retrieves all notifications addressed to a user.
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, error)

	// MarkRead sets the read flag.
	MarkRead(ctx context.Context, id string) error
}
