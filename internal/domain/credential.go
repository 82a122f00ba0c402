package domain

import "time"

// Credential links a sign-in email to an identity.
type Credential struct {
	Email        string
	UserID       string
	PasswordHash string
	CreatedAt    time.Time
}
