package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireJobLock attempts to acquire a lock for the given job.
// Returns true if the lock was acquired, false if already held.
func (s *LockStore) AcquireJobLock(ctx context.Context, jobID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:job:%s", jobID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseJobLock releases the lock for the given job.
func (s *LockStore) ReleaseJobLock(ctx context.Context, jobID string) error {
	key := fmt.Sprintf("lock:job:%s", jobID)

	return s.client.Del(ctx, key).Err()
}
