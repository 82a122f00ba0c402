package repository

import (
	"context"

	"livestock/internal/domain"
)

// CredentialRepository defines the persistence operations for sign-in credentials.
type CredentialRepository interface {
	// Create persists a credential. Returns ErrAlreadyExists if the email is taken.
	Create(ctx context.Context, cred *domain.Credential) error

	// GetByEmail retrieves the credential for an email address.
	GetByEmail(ctx context.Context, email string) (*domain.Credential, error)
}
