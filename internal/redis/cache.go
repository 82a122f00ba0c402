package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheStore handles entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// ProfileCacheTTL bounds how stale a recipient lookup may be.
const ProfileCacheTTL = 60 * time.Second

const profileCachePrefix = "cache:profile:"

// CachedProfile is the slice of a user profile the notification relay needs.
type CachedProfile struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	NotificationsEnabled bool     `json:"notifications_enabled"`
	PushTokens           []string `json:"push_tokens"`
}

// GetProfile retrieves a profile from cache.
func (s *CacheStore) GetProfile(ctx context.Context, userID string) (*CachedProfile, error) {
	key := profileCachePrefix + userID
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var profile CachedProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetProfile stores a profile in cache.
func (s *CacheStore) SetProfile(ctx context.Context, profile *CachedProfile) error {
	key := profileCachePrefix + profile.ID
	data, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, ProfileCacheTTL).Err()
}

// InvalidateProfile removes a profile from cache.
func (s *CacheStore) InvalidateProfile(ctx context.Context, userID string) error {
	key := profileCachePrefix + userID
	return s.client.Del(ctx, key).Err()
}
