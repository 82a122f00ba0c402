package repository

import (
	"context"

	"livestock/internal/domain"
)

// UserRepository defines the persistence operations for transporter profiles.
type UserRepository interface {
	// Create persists a new profile.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a profile by ID.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByPhone retrieves the profile registered with a phone number.
	// Returns nil if none exists.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)

	// ListOnline retrieves every profile currently marked online.
	ListOnline(ctx context.Context) ([]*domain.User, error)

	// UpdateProfile sets the display name and vehicle details.
	UpdateProfile(ctx context.Context, id, name string, vehicle *domain.VehicleDetails) error

	// UpdateSettings replaces the preference toggles.
	UpdateSettings(ctx context.Context, id string, settings domain.UserSettings) error

	// SetOnline sets the online flag.
	SetOnline(ctx context.Context, id string, online bool) error

	// AddPushToken merges a device token into the token set.
	AddPushToken(ctx context.Context, id, token string) error

	// IncrementTotalTrips adds one to the completed trip counter.
	IncrementTotalTrips(ctx context.Context, id string) error
}
