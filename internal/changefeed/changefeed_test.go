package changefeed

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

const waitTimeout = 2 * time.Second

func receive[S any](t *testing.T, ch <-chan S) S {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return v
	case <-time.After(waitTimeout):
		t.Fatal("timed out waiting for value")
	}
	var zero S
	return zero
}

func waitClosed[S any](t *testing.T, ch <-chan S) {
	t.Helper()
	deadline := time.After(waitTimeout)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for channel to close")
		}
	}
}

func TestMemory_PublishSignalsListeners(t *testing.T) {
	t.Parallel()

	feed := NewMemory()
	ctx := context.Background()

	a, releaseA, _ := feed.Subscribe(ctx, "jobs")
	b, releaseB, _ := feed.Subscribe(ctx, "jobs")
	other, releaseOther, _ := feed.Subscribe(ctx, "users")
	defer releaseA()
	defer releaseB()
	defer releaseOther()

	if err := feed.Publish(ctx, "jobs"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	receive(t, a)
	receive(t, b)
	select {
	case <-other:
		t.Error("listener on another collection must not be signalled")
	default:
	}
}

func TestMemory_PublishCoalesces(t *testing.T) {
	t.Parallel()

	feed := NewMemory()
	ch, release, _ := feed.Subscribe(context.Background(), "jobs")
	defer release()

	for i := 0; i < 5; i++ {
		_ = feed.Publish(context.Background(), "jobs")
	}

	receive(t, ch)
	select {
	case <-ch:
		t.Error("expected a single pending signal")
	default:
	}
}

func TestMemory_ReleaseAndCancel(t *testing.T) {
	t.Parallel()

	feed := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())

	first, release, _ := feed.Subscribe(context.Background(), "jobs")
	second, _, _ := feed.Subscribe(ctx, "jobs")
	if got := feed.Listeners("jobs"); got != 2 {
		t.Fatalf("expected 2 listeners, got %d", got)
	}

	release()
	release()
	waitClosed(t, first)

	cancel()
	waitClosed(t, second)

	if got := feed.Listeners("jobs"); got != 0 {
		t.Errorf("expected listeners to be released, got %d", got)
	}
}

func TestWatch_InitialSnapshotAndReload(t *testing.T) {
	t.Parallel()

	feed := NewMemory()
	var version atomic.Int32

	sub, err := Watch(context.Background(), feed, "jobs", func(ctx context.Context) (int32, error) {
		return version.Load(), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	if got := receive(t, sub.C); got != 0 {
		t.Errorf("expected initial snapshot 0, got %d", got)
	}

	version.Store(7)
	_ = feed.Publish(context.Background(), "jobs")

	if got := receive(t, sub.C); got != 7 {
		t.Errorf("expected reloaded snapshot 7, got %d", got)
	}
}

func TestWatch_InitialLoadError(t *testing.T) {
	t.Parallel()

	feed := NewMemory()
	loadErr := errors.New("store offline")

	_, err := Watch(context.Background(), feed, "jobs", func(ctx context.Context) (string, error) {
		return "", loadErr
	})
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected load error, got %v", err)
	}
	if got := feed.Listeners("jobs"); got != 0 {
		t.Errorf("expected listener to be released, got %d", got)
	}
}

func TestWatch_ReloadErrorKeepsSubscription(t *testing.T) {
	t.Parallel()

	feed := NewMemory()
	var calls atomic.Int32

	sub, err := Watch(context.Background(), feed, "jobs", func(ctx context.Context) (int32, error) {
		n := calls.Add(1)
		if n == 2 {
			return 0, errors.New("transient")
		}
		return n, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer sub.Close()

	receive(t, sub.C)

	_ = feed.Publish(context.Background(), "jobs")
	// Wait for the failed reload to be consumed before publishing again.
	deadline := time.Now().Add(waitTimeout)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	_ = feed.Publish(context.Background(), "jobs")

	if got := receive(t, sub.C); got != 3 {
		t.Errorf("expected snapshot from third load, got %d", got)
	}
}

func TestSubscription_CloseClosesChannel(t *testing.T) {
	t.Parallel()

	feed := NewMemory()
	sub, err := Watch(context.Background(), feed, "jobs", func(ctx context.Context) (string, error) {
		return "snapshot", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sub.Close()
	sub.Close()

	waitClosed(t, sub.C)
	if got := feed.Listeners("jobs"); got != 0 {
		t.Errorf("expected listener to be released, got %d", got)
	}
}

func TestDeliverLatest_ReplacesPending(t *testing.T) {
	t.Parallel()

	out := make(chan int, 1)
	deliverLatest(out, 1)
	deliverLatest(out, 2)
	deliverLatest(out, 3)

	if got := <-out; got != 3 {
		t.Errorf("expected latest snapshot 3, got %d", got)
	}
}
