package tests

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"livestock/internal/domain"
	"livestock/internal/identity"
)

type identityFixture struct {
	userRepo   *MockUserRepository
	sessions   *MockSessionStore
	codeSender *MockCodeSender
	service    *identity.Service
}

func newIdentityFixture() *identityFixture {
	f := &identityFixture{
		userRepo:   NewMockUserRepository(),
		sessions:   NewMockSessionStore(),
		codeSender: NewMockCodeSender(),
	}
	tokens := identity.NewTokenManager("test-secret", time.Hour, "livestock-test")
	f.service = identity.NewService(NewMockCredentialRepository(), f.userRepo, f.sessions, tokens, f.codeSender)
	return f
}

// ──────────────────────────────────────────────
// 1. EMAIL SIGN-UP AND SIGN-IN
// ──────────────────────────────────────────────

func TestSignUp_CreatesDefaultProfile(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()

	session, err := f.service.SignUp(context.Background(), identity.SignUpRequest{
		Email:    "Sam@Example.com",
		Password: "hunter22",
		Name:     "Sam Rivers",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a session token")
	}

	user := f.userRepo.GetUser(session.User.ID)
	if user == nil {
		t.Fatal("expected profile to be stored")
	}
	if user.Email != "sam@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if !user.IsOnline || user.TotalTrips != 0 {
		t.Errorf("unexpected initial state: online=%v trips=%d", user.IsOnline, user.TotalTrips)
	}
	if user.Settings != (domain.UserSettings{Notifications: true, Location: true, DarkMode: false}) {
		t.Errorf("unexpected default settings: %+v", user.Settings)
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	ctx := context.Background()

	if _, err := f.service.SignUp(ctx, identity.SignUpRequest{Email: "sam@example.com", Password: "hunter22"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := f.service.SignUp(ctx, identity.SignUpRequest{Email: "SAM@example.com", Password: "other-pass"})
	if !errors.Is(err, identity.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if f.userRepo.CountUsers() != 1 {
		t.Errorf("expected a single profile, got %d", f.userRepo.CountUsers())
	}
}

func TestSignUp_Validation(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()

	if _, err := f.service.SignUp(context.Background(), identity.SignUpRequest{Email: "not-an-email", Password: "hunter22"}); !errors.Is(err, identity.ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
	if _, err := f.service.SignUp(context.Background(), identity.SignUpRequest{Email: "a@b.co", Password: "123"}); !errors.Is(err, identity.ErrWeakPassword) {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func TestSignIn(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	ctx := context.Background()

	signedUp, err := f.service.SignUp(ctx, identity.SignUpRequest{Email: "sam@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	session, err := f.service.SignIn(ctx, "sam@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.User.ID != signedUp.User.ID {
		t.Errorf("expected the same user, got %s", session.User.ID)
	}

	if _, err := f.service.SignIn(ctx, "sam@example.com", "wrong"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := f.service.SignIn(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, identity.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignIn_RestoresProfileMissingAfterFailedSignUp(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	ctx := context.Background()

	f.userRepo.CreateError = errors.New("store unavailable")
	if _, err := f.service.SignUp(ctx, identity.SignUpRequest{Email: "sam@example.com", Password: "hunter22"}); err == nil {
		t.Fatal("expected sign-up to fail while the profile cannot be stored")
	}
	f.userRepo.CreateError = nil

	if _, err := f.service.SignUp(ctx, identity.SignUpRequest{Email: "sam@example.com", Password: "hunter22"}); !errors.Is(err, identity.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken for the stored credential, got %v", err)
	}

	session, err := f.service.SignIn(ctx, "sam@example.com", "hunter22")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.User.Email != "sam@example.com" || session.User.Name != "sam" {
		t.Errorf("unexpected restored profile: %+v", session.User)
	}
	if f.userRepo.CountUsers() != 1 {
		t.Errorf("expected exactly one profile, got %d", f.userRepo.CountUsers())
	}

	again, err := f.service.SignIn(ctx, "sam@example.com", "hunter22")
	if err != nil || again.User.ID != session.User.ID {
		t.Errorf("expected the restored profile to be reused, got %v, %v", again, err)
	}
}

// ──────────────────────────────────────────────
// 2. PHONE SIGN-IN
// ──────────────────────────────────────────────

func TestPhoneSignIn_CreatesProfileOnFirstUse(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	ctx := context.Background()

	verificationID, err := f.service.StartPhoneVerification(ctx, "+1 555-010-2030")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	code := f.codeSender.LastCode("+15550102030")
	if len(code) != 6 {
		t.Fatalf("expected a 6 digit code, got %q", code)
	}

	session, err := f.service.ConfirmPhone(ctx, verificationID, code)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	user := session.User
	if user.Phone != "+15550102030" {
		t.Errorf("unexpected phone %q", user.Phone)
	}
	if user.Name != "Transporter "+user.ID[:5] {
		t.Errorf("unexpected generated name %q", user.Name)
	}
	if f.sessions.Verification(verificationID) != nil {
		t.Error("verification must be consumed")
	}

	// A second sign-in with the same phone reuses the profile.
	verificationID, _ = f.service.StartPhoneVerification(ctx, "+15550102030")
	again, err := f.service.ConfirmPhone(ctx, verificationID, f.codeSender.LastCode("+15550102030"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.User.ID != user.ID || f.userRepo.CountUsers() != 1 {
		t.Error("expected the existing profile to be reused")
	}
}

func TestPhoneSignIn_WrongCodeCountsAttempts(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	ctx := context.Background()

	verificationID, err := f.service.StartPhoneVerification(ctx, "+15550102030")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 1; i <= 5; i++ {
		if _, err := f.service.ConfirmPhone(ctx, verificationID, "000000x"); !errors.Is(err, identity.ErrInvalidCode) {
			t.Fatalf("attempt %d: expected ErrInvalidCode, got %v", i, err)
		}
		if got := f.sessions.Attempts(verificationID); got != int64(i) {
			t.Errorf("expected %d attempts, got %d", i, got)
		}
	}

	code := f.codeSender.LastCode("+15550102030")
	if _, err := f.service.ConfirmPhone(ctx, verificationID, code); !errors.Is(err, identity.ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
	if _, err := f.service.ConfirmPhone(ctx, verificationID, code); !errors.Is(err, identity.ErrVerificationExpired) {
		t.Errorf("expected ErrVerificationExpired after lockout, got %v", err)
	}
}

func TestPhoneSignIn_ParallelGuessesAreBounded(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	ctx := context.Background()

	verificationID, err := f.service.StartPhoneVerification(ctx, "+15550102030")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const guesses = 20
	results := make(chan error, guesses)

	var wg sync.WaitGroup
	for i := 0; i < guesses; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.ConfirmPhone(ctx, verificationID, "000000x")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	invalid := 0
	for err := range results {
		switch {
		case errors.Is(err, identity.ErrInvalidCode):
			invalid++
		case errors.Is(err, identity.ErrTooManyAttempts), errors.Is(err, identity.ErrVerificationExpired):
		default:
			t.Errorf("unexpected result: %v", err)
		}
	}
	if invalid != 5 {
		t.Errorf("expected exactly 5 evaluated guesses, got %d", invalid)
	}
}

func TestPhoneSignIn_InvalidPhone(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()

	for _, phone := range []string{"5550102030", "+1-call-me", "+12"} {
		if _, err := f.service.StartPhoneVerification(context.Background(), phone); !errors.Is(err, identity.ErrInvalidPhone) {
			t.Errorf("%q: expected ErrInvalidPhone, got %v", phone, err)
		}
	}
}

func TestPhoneSignIn_SendFailure(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	f.codeSender.SendError = ErrMockBrokerDown

	if _, err := f.service.StartPhoneVerification(context.Background(), "+15550102030"); !errors.Is(err, ErrMockBrokerDown) {
		t.Fatalf("expected send error, got %v", err)
	}
}

// ──────────────────────────────────────────────
// 3. SESSIONS
// ──────────────────────────────────────────────

func TestAuthenticate_AndSignOut(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	ctx := context.Background()

	session, err := f.service.SignUp(ctx, identity.SignUpRequest{Email: "sam@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := f.service.Authenticate(ctx, session.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != session.User.ID {
		t.Errorf("expected user %s, got %s", session.User.ID, claims.UserID)
	}

	current, err := f.service.CurrentUser(ctx, claims)
	if err != nil || current.ID != session.User.ID {
		t.Fatalf("unexpected current user: %v, %v", current, err)
	}

	if err := f.service.SignOut(ctx, claims); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.service.Authenticate(ctx, session.Token); !errors.Is(err, identity.ErrUnauthenticated) {
		t.Errorf("expected revoked token to be rejected, got %v", err)
	}
}

func TestAuthenticate_RejectsForeignTokens(t *testing.T) {
	t.Parallel()

	f := newIdentityFixture()
	other := identity.NewTokenManager("another-secret", time.Hour, "livestock-test")
	token, _, err := other.Issue("U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.service.Authenticate(context.Background(), token); !errors.Is(err, identity.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := f.service.Authenticate(context.Background(), strings.Repeat("x", 20)); !errors.Is(err, identity.ErrUnauthenticated) {
		t.Errorf("expected ErrUnauthenticated for garbage, got %v", err)
	}
}

func TestTokenManager_Expired(t *testing.T) {
	t.Parallel()

	tokens := identity.NewTokenManager("test-secret", -time.Minute, "livestock-test")
	token, _, err := tokens.Issue("U1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := tokens.Parse(token); !errors.Is(err, identity.ErrUnauthenticated) {
		t.Errorf("expected expired token to be rejected, got %v", err)
	}
}
