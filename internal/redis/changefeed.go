package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"livestock/internal/changefeed"
)

const changeChannelPrefix = "livestock:changes:"

// ChangeFeed distributes collection change events over Redis Pub/Sub so
// every server instance can refresh its live subscriptions.
type ChangeFeed struct {
	client *redis.Client
}

// NewChangeFeed creates a new ChangeFeed.
func NewChangeFeed(client *redis.Client) *ChangeFeed {
	return &ChangeFeed{client: client}
}

// Publish announces that a collection changed.
func (f *ChangeFeed) Publish(ctx context.Context, collection string) error {
	return f.client.Publish(ctx, changeChannelPrefix+collection, collection).Err()
}

// Subscribe listens for changes on a collection until release is called
// or ctx is done.
func (f *ChangeFeed) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	pubsub := f.client.Subscribe(ctx, changeChannelPrefix+collection)

	// Wait for the subscription to be confirmed so no change is missed
	// between the caller's initial read and the first message.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", collection, err)
	}

	out := make(chan struct{}, 1)
	stop := make(chan struct{})
	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			_ = pubsub.Close()
		})
	}

	msgs := pubsub.Channel()
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				release()
				return
			case <-stop:
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, release, nil
}

var _ changefeed.Feed = (*ChangeFeed)(nil)
