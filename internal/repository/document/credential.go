package document

import (
	"context"
	"strings"

	"livestock/internal/docstore"
	"livestock/internal/domain"
	"livestock/internal/repository"
)

type credentialItem struct {
	Email        string `json:"email" dynamodbav:"email"`
	UserID       string `json:"user_id" dynamodbav:"user_id"`
	PasswordHash string `json:"password_hash" dynamodbav:"password_hash"`
	CreatedAt    string `json:"created_at" dynamodbav:"created_at"`
}

// CredentialRepository is a docstore implementation of repository.CredentialRepository.
// Credentials are keyed by the lower-cased email address.
type CredentialRepository struct {
	store docstore.Store
}

// NewCredentialRepository creates a new CredentialRepository.
func NewCredentialRepository(store docstore.Store) *CredentialRepository {
	return &CredentialRepository{store: store}
}

// Create persists a credential.
func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) error {
	key := credentialKey(cred.Email)
	it := &credentialItem{
		Email:        key,
		UserID:       cred.UserID,
		PasswordHash: cred.PasswordHash,
		CreatedAt:    formatTime(cred.CreatedAt),
	}
	return translate(r.store.Create(ctx, docstore.CollectionCredentials, key, it))
}

// GetByEmail retrieves the credential for an email address.
func (r *CredentialRepository) GetByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var it credentialItem
	if err := r.store.Get(ctx, docstore.CollectionCredentials, credentialKey(email), &it); err != nil {
		return nil, translate(err)
	}
	return &domain.Credential{
		Email:        it.Email,
		UserID:       it.UserID,
		PasswordHash: it.PasswordHash,
		CreatedAt:    parseTime(it.CreatedAt),
	}, nil
}

func credentialKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var _ repository.CredentialRepository = (*CredentialRepository)(nil)
