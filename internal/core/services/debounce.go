package services

import (
	"context"
	"sync"
	"time"
)

// Debouncer runs a function after a fixed delay, cancelling the previously
// pending call when a new one is scheduled. It models the delay-then-fetch
// pattern used for search and refresh triggers: a burst of triggers
// collapses into the last one.
type Debouncer struct {
	delay time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewDebouncer creates a Debouncer with the given delay.
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call schedules fn to run after the delay, cancelling any call still
// pending. fn receives a context that is cancelled either by a newer Call,
// by Cancel, or by the parent ctx.
func (d *Debouncer) Call(ctx context.Context, fn func(context.Context)) {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	callCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.mu.Unlock()

	go func() {
		timer := time.NewTimer(d.delay)
		defer timer.Stop()
		select {
		case <-callCtx.Done():
			return
		case <-timer.C:
			fn(callCtx)
		}
	}()
}

// Cancel drops the pending call, if any. Used when the trigger condition is
// withdrawn before the delay elapses (e.g. the search text was cleared).
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
