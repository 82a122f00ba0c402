package identity

import "errors"

var (
	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email")

	// ErrWeakPassword is returned when a password is shorter than the minimum.
	ErrWeakPassword = errors.New("password must be at least 6 characters")

	// ErrEmailTaken is returned when signing up with a registered email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is returned when email or password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidPhone is returned when a phone number is malformed.
	ErrInvalidPhone = errors.New("invalid phone number")

	// ErrInvalidCode is returned when a verification code does not match.
	ErrInvalidCode = errors.New("invalid verification code")

	// ErrVerificationExpired is returned when a verification is unknown or expired.
	ErrVerificationExpired = errors.New("verification expired")

	// ErrTooManyAttempts is returned when a verification was guessed too often.
	ErrTooManyAttempts = errors.New("too many verification attempts")

	// ErrUnauthenticated is returned when a session token is missing, invalid or revoked.
	ErrUnauthenticated = errors.New("unauthenticated")
)
