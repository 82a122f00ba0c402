package repository

import (
	"context"

	"livestock/internal/domain"
)

// EarningsRepository defines the persistence operations for earnings records.
type EarningsRepository interface {
	// Create persists a new earnings record.
	Create(ctx context.Context, e *domain.Earnings) error

	// ListByTransporter retrieves all earnings records of a transporter.
	ListByTransporter(ctx context.Context, transporterID string) ([]*domain.Earnings, error)
}
