package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/whitebox/cryptomonitor/internal/core/services"
)

func TestDebouncer_RunsAfterDelay(t *testing.T) {
	d := services.NewDebouncer(10 * time.Millisecond)

	done := make(chan struct{})
	d.Call(context.Background(), func(context.Context) { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
}

func TestDebouncer_BurstCollapsesIntoLastCall(t *testing.T) {
	d := services.NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		last := i == 4
		d.Call(context.Background(), func(context.Context) {
			calls.Add(1)
			if last {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("last call never ran")
	}
	// Earlier calls were cancelled before their delay elapsed.
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_CancelDropsPendingCall(t *testing.T) {
	d := services.NewDebouncer(20 * time.Millisecond)

	var ran atomic.Bool
	d.Call(context.Background(), func(context.Context) { ran.Store(true) })
	d.Cancel()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, ran.Load())
}

func TestDebouncer_ParentCancellationPropagates(t *testing.T) {
	d := services.NewDebouncer(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool
	d.Call(ctx, func(context.Context) { ran.Store(true) })
	cancel()

	time.Sleep(100 * time.Millisecond)
	assert.False(t, ran.Load())
}
