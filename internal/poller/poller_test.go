package poller

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_FetchesImmediatelyThenOnInterval(t *testing.T) {
	var calls atomic.Int32
	p := New(10*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("poller did not stop after cancel")
	}

	stopped := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, calls.Load(), "no fetches after cancel")
}

func TestRun_ErrorsDoNotStopLoop(t *testing.T) {
	var calls, errs atomic.Int32
	p := New(5*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return stderrors.New("backend down")
	})
	p.OnError = func(error) { errs.Add(1) }

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go func() { _ = p.Run(ctx) }()

	require.Eventually(t, func() bool { return errs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	assert.GreaterOrEqual(t, calls.Load(), errs.Load())
}

func TestRun_CanceledBeforeStart(t *testing.T) {
	var calls atomic.Int32
	p := New(time.Hour, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.Run(ctx), context.Canceled)
	assert.Equal(t, int32(0), calls.Load())
}

func TestNew_DefaultsInterval(t *testing.T) {
	assert.Equal(t, time.Second, New(0, nil).Interval)
}
