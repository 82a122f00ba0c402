package redis

import (
	"context"
	"time"
)

// LockStoreInterface defines the interface for distributed job locking.
type LockStoreInterface interface {
	AcquireJobLock(ctx context.Context, jobID string, ttl time.Duration) (bool, error)
	ReleaseJobLock(ctx context.Context, jobID string) error
}

// ProfileCacheInterface defines the interface for recipient profile caching.
type ProfileCacheInterface interface {
	GetProfile(ctx context.Context, userID string) (*CachedProfile, error)
	SetProfile(ctx context.Context, profile *CachedProfile) error
	InvalidateProfile(ctx context.Context, userID string) error
}

// SessionStoreInterface defines the interface for session state.
type SessionStoreInterface interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	SaveVerification(ctx context.Context, verificationID string, v *PhoneVerification, ttl time.Duration) error
	CountVerificationAttempt(ctx context.Context, verificationID string, ttl time.Duration) (int64, error)
	GetVerification(ctx context.Context, verificationID string) (*PhoneVerification, error)
	DeleteVerification(ctx context.Context, verificationID string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LockStoreInterface    = (*LockStore)(nil)
	_ ProfileCacheInterface = (*CacheStore)(nil)
	_ SessionStoreInterface = (*SessionStore)(nil)
)
