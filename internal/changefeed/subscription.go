package changefeed

import (
	"context"
	"log"
	"sync"
)

// Subscription delivers full snapshots of a query result. The first
// snapshot is sent immediately; a new one follows every change in the
// watched collection. A consumer that falls behind only sees the latest
// snapshot.
type Subscription[S any] struct {
	// C receives snapshots. It is closed after Close or context cancellation.
	C <-chan S

	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Close stops the subscription and waits for its listener to be released.
// It is safe to call more than once.
func (s *Subscription[S]) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Loader produces a fresh snapshot.
type Loader[S any] func(ctx context.Context) (S, error)

// Watch subscribes to collection changes on feed and re-runs load after
// each one. Load errors are logged and the previous snapshot stays current.
func Watch[S any](ctx context.Context, feed Feed, collection string, load Loader[S]) (*Subscription[S], error) {
	ctx, cancel := context.WithCancel(ctx)

	changes, release, err := feed.Subscribe(ctx, collection)
	if err != nil {
		cancel()
		return nil, err
	}

	initial, err := load(ctx)
	if err != nil {
		release()
		cancel()
		return nil, err
	}

	out := make(chan S, 1)
	out <- initial

	sub := &Subscription[S]{
		C:      out,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(sub.done)
		defer close(out)
		defer release()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				snapshot, err := load(ctx)
				if err != nil {
					if ctx.Err() == nil {
						log.Printf("[SUBSCRIPTION] reload failed: collection=%s err=%v", collection, err)
					}
					continue
				}
				deliverLatest(out, snapshot)
			}
		}
	}()

	return sub, nil
}

// deliverLatest replaces an undelivered snapshot with the newer one.
func deliverLatest[S any](out chan S, snapshot S) {
	for {
		select {
		case out <- snapshot:
			return
		default:
		}
		select {
		case <-out:
		default:
		}
	}
}
