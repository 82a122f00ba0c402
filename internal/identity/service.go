// Package identity signs transporters in and out and resolves the identity
// behind a session token.
package identity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"livestock/internal/domain"
	"livestock/internal/redis"
	"livestock/internal/repository"
)

const (
	minPasswordLength   = 6
	verificationTTL     = 5 * time.Minute
	maxVerifyAttempts   = 5
	verificationCodeLen = 6
)

// CodeSender delivers a phone verification code to the user.
type CodeSender interface {
	SendCode(ctx context.Context, phone, code string) error
}

// LogCodeSender writes codes to the log. Used when no SMS provider is wired.
type LogCodeSender struct{}

// SendCode logs the code.
func (LogCodeSender) SendCode(ctx context.Context, phone, code string) error {
	log.Printf("[IDENTITY] verification code for %s: %s", phone, code)
	return nil
}

// Session is a signed-in identity.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Service handles sign-up, sign-in and sign-out.
type Service struct {
	credentialRepo repository.CredentialRepository
	userRepo       repository.UserRepository
	sessions       redis.SessionStoreInterface
	tokens         *TokenManager
	codeSender     CodeSender
}

// NewService creates a new identity Service.
func NewService(
	credentialRepo repository.CredentialRepository,
	userRepo repository.UserRepository,
	sessions redis.SessionStoreInterface,
	tokens *TokenManager,
	codeSender CodeSender,
) *Service {
	if codeSender == nil {
		codeSender = LogCodeSender{}
	}
	return &Service{
		credentialRepo: credentialRepo,
		userRepo:       userRepo,
		sessions:       sessions,
		tokens:         tokens,
		codeSender:     codeSender,
	}
}

// SignUpRequest contains the parameters for an email sign-up.
type SignUpRequest struct {
	Email    string
	Password string
	Name     string
}

// SignUp registers an email credential, creates the profile and signs in.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*Session, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.New().String()

	cred := &domain.Credential{
		Email:        email,
		UserID:       userID,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	if err := s.credentialRepo.Create(ctx, cred); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultName(email)
	}

	user := newProfile(userID, name, now)
	user.Email = email
	if err := s.userRepo.Create(ctx, user); err != nil {
		log.Printf("[IDENTITY] profile create failed after credential: user=%s err=%v", userID, err)
		return nil, err
	}

	log.Printf("[IDENTITY] signed up user=%s", userID)
	return s.startSession(user)
}

// SignIn verifies an email credential and signs in.
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	cred, err := s.credentialRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByID(ctx, cred.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		// Sign-up stored the credential but failed before the profile.
		user, err = s.restoreProfile(ctx, cred)
	}
	if err != nil {
		return nil, err
	}

	return s.startSession(user)
}

// restoreProfile creates the default profile for a credential that has none.
func (s *Service) restoreProfile(ctx context.Context, cred *domain.Credential) (*domain.User, error) {
	user := newProfile(cred.UserID, defaultName(cred.Email), time.Now())
	user.Email = cred.Email
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return s.userRepo.GetByID(ctx, cred.UserID)
		}
		return nil, err
	}

	log.Printf("[IDENTITY] restored missing profile user=%s", cred.UserID)
	return user, nil
}

func defaultName(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}

// StartPhoneVerification sends a one-time code to phone and returns the id
// the code must be confirmed against.
func (s *Service) StartPhoneVerification(ctx context.Context, phone string) (string, error) {
	phone, err := normalizePhone(phone)
	if err != nil {
		return "", err
	}

	code, err := generateCode(verificationCodeLen)
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	verificationID := uuid.New().String()
	v := &redis.PhoneVerification{Phone: phone, Code: code}
	if err := s.sessions.SaveVerification(ctx, verificationID, v, verificationTTL); err != nil {
		return "", err
	}

	if err := s.codeSender.SendCode(ctx, phone, code); err != nil {
		_ = s.sessions.DeleteVerification(ctx, verificationID)
		return "", err
	}

	return verificationID, nil
}

// ConfirmPhone checks a verification code and signs in, creating a profile
// for a phone number seen for the first time.
func (s *Service) ConfirmPhone(ctx context.Context, verificationID, code string) (*Session, error) {
	v, err := s.sessions.GetVerification(ctx, verificationID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVerificationExpired
	}

	// Every try counts, including the correct one.
	attempt, err := s.sessions.CountVerificationAttempt(ctx, verificationID, verificationTTL)
	if err != nil {
		return nil, err
	}
	if attempt > maxVerifyAttempts {
		_ = s.sessions.DeleteVerification(ctx, verificationID)
		return nil, ErrTooManyAttempts
	}

	if strings.TrimSpace(code) != v.Code {
		return nil, ErrInvalidCode
	}

	if err := s.sessions.DeleteVerification(ctx, verificationID); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByPhone(ctx, v.Phone)
	if err != nil {
		return nil, err
	}

	if user == nil {
		userID := uuid.New().String()
		user = newProfile(userID, "Transporter "+userID[:5], time.Now())
		user.Phone = v.Phone
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		log.Printf("[IDENTITY] signed up user=%s via phone", userID)
	}

	return s.startSession(user)
}

// SignOut revokes the session token until it would have expired.
func (s *Service) SignOut(ctx context.Context, claims *Claims) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	return s.sessions.RevokeToken(ctx, claims.ID, claims.Remaining())
}

// Authenticate resolves a session token to its claims.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.sessions.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthenticated
	}
	return claims, nil
}

// CurrentUser returns the profile of an authenticated identity.
func (s *Service) CurrentUser(ctx context.Context, claims *Claims) (*domain.User, error) {
	if claims == nil {
		return nil, ErrUnauthenticated
	}
	return s.userRepo.GetByID(ctx, claims.UserID)
}

func (s *Service) startSession(user *domain.User) (*Session, error) {
	token, claims, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// newProfile returns the profile every new transporter starts with.
func newProfile(id, name string, now time.Time) *domain.User {
	return &domain.User{
		ID:         id,
		Name:       name,
		TotalTrips: 0,
		IsOnline:   true,
		Settings:   domain.DefaultUserSettings(),
		CreatedAt:  now,
	}
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}

// normalizePhone accepts E.164 numbers, ignoring spaces and dashes.
func normalizePhone(phone string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	if !strings.HasPrefix(cleaned, "+") || len(cleaned) < 8 || len(cleaned) > 16 {
		return "", ErrInvalidPhone
	}
	for _, r := range cleaned[1:] {
		if r < '0' || r > '9' {
			return "", ErrInvalidPhone
		}
	}
	return cleaned, nil
}

func generateCode(digits int) (string, error) {
	var b strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
