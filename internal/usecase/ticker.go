package usecase

import (
	"context"
	"sync"
	"time"
)

// Ticker runs fn every period on a single goroutine until stopped.
// Firings never overlap, and once Stop returns fn is not called again.
type Ticker struct {
	period time.Duration
	fn     func(ctx context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

func NewTicker(period time.Duration, fn func(ctx context.Context)) *Ticker {
	return &Ticker{period: period, fn: fn}
}

// Start begins firing. Starting a running or stopped ticker is a no-op.
func (t *Ticker) Start(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil || t.stopped {
		return
	}
	ctx, t.cancel = context.WithCancel(ctx)
	t.done = make(chan struct{})
	go t.loop(ctx, t.done)
}

func (t *Ticker) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	tk := time.NewTicker(t.period)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			// a tick and a cancellation can be ready together
			if ctx.Err() != nil {
				return
			}
			t.fn(ctx)
		}
	}
}

// Stop cancels the ticker and waits for an in-flight firing to finish. Safe to call twice.
func (t *Ticker) Stop() {
	t.mu.Lock()
	t.stopped = true
	cancel, done := t.cancel, t.done
	t.cancel = nil
	t.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
