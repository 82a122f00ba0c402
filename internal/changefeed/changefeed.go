// Package changefeed turns collection change events into live snapshot
// subscriptions.
package changefeed

import (
	"context"
	"sync"
)

// Feed publishes and delivers collection change events.
type Feed interface {
	// Publish announces that a collection changed.
	Publish(ctx context.Context, collection string) error

	// Subscribe returns a channel that receives a value after every change
	// in collection, and a function that releases the listener. The channel
	// is closed once the listener is released or ctx is done.
	Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error)
}

// Memory is an in-process Feed.
type Memory struct {
	mu        sync.Mutex
	listeners map[string]map[chan struct{}]struct{}
}

// NewMemory creates an in-process feed.
func NewMemory() *Memory {
	return &Memory{listeners: make(map[string]map[chan struct{}]struct{})}
}

// Publish signals every listener of the collection without blocking.
func (m *Memory) Publish(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for ch := range m.listeners[collection] {
		select {
		case ch <- struct{}{}:
		default:
			// A signal is already pending; the listener will re-read anyway.
		}
	}
	return nil
}

// Subscribe registers a listener for the collection.
func (m *Memory) Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	if m.listeners[collection] == nil {
		m.listeners[collection] = make(map[chan struct{}]struct{})
	}
	m.listeners[collection][ch] = struct{}{}
	m.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners[collection], ch)
			m.mu.Unlock()
			close(ch)
		})
	}

	go func() {
		<-ctx.Done()
		release()
	}()

	return ch, release, nil
}

// Listeners returns the number of active listeners on a collection.
func (m *Memory) Listeners(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners[collection])
}

var _ Feed = (*Memory)(nil)
