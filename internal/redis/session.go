package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Key prefixes
const (
	revokedTokenPrefix = "session:revoked:"
	verificationPrefix = "session:phone:"
	attemptsPrefix     = "session:phone-attempts:"
)

// PhoneVerification is a pending phone sign-in.
type PhoneVerification struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// SessionStore keeps short-lived identity state in Redis.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a new SessionStore.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// RevokeToken marks a token id as signed out until it would have expired.
func (s *SessionStore) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, revokedTokenPrefix+tokenID, "1", ttl).Err()
}

// IsTokenRevoked reports whether a token id was signed out.
func (s *SessionStore) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SaveVerification stores a pending phone verification.
func (s *SessionStore) SaveVerification(ctx context.Context, verificationID string, v *PhoneVerification, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, verificationPrefix+verificationID, data, ttl).Err()
}

// CountVerificationAttempt atomically counts one confirmation attempt and
// returns the running total. The counter outlives DeleteVerification and
// expires after ttl.
func (s *SessionStore) CountVerificationAttempt(ctx context.Context, verificationID string, ttl time.Duration) (int64, error) {
	key := attemptsPrefix + verificationID

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// GetVerification loads a pending phone verification.
// Returns nil if it does not exist or has expired.
func (s *SessionStore) GetVerification(ctx context.Context, verificationID string) (*PhoneVerification, error) {
	data, err := s.client.Get(ctx, verificationPrefix+verificationID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var v PhoneVerification
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// DeleteVerification removes a pending phone verification.
func (s *SessionStore) DeleteVerification(ctx context.Context, verificationID string) error {
	return s.client.Del(ctx, verificationPrefix+verificationID).Err()
}
