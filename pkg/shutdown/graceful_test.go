package shutdown_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notekeeper/pkg/shutdown"
)

func TestWait_RunsHooksOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var calls atomic.Int32
	hook := func(context.Context) error {
		calls.Add(1)
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- shutdown.Wait(ctx, time.Second, hook, hook) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return")
	}
	assert.Equal(t, int32(2), calls.Load())
}

func TestRun_CollectsErrors(t *testing.T) {
	errHook := errors.New("close failed")

	err := shutdown.Run(context.Background(), time.Second,
		func(context.Context) error { return errHook },
		func(context.Context) error { return nil },
	)
	assert.ErrorIs(t, err, errHook)
}

func TestRun_Timeout(t *testing.T) {
	err := shutdown.Run(context.Background(), 50*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		time.Sleep(100 * time.Millisecond)
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
