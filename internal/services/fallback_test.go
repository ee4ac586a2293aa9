package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttemptSuccess(t *testing.T) {
	res := Attempt(context.Background(), "fetch", testTimeout, func(ctx context.Context) (int, error) {
		return 42, nil
	})

	assert.Nil(t, res.Err())
	assert.Equal(t, 42, res.OrElse(0))
}

func TestAttemptFailureFallsBack(t *testing.T) {
	boom := errors.New("boom")
	res := Attempt(context.Background(), "fetch", testTimeout, func(ctx context.Context) (int, error) {
		return 0, boom
	})

	require.NotNil(t, res.Err())
	assert.ErrorIs(t, res.Err(), boom)
	assert.Equal(t, "fetch: boom", res.Err().Error())
	assert.Equal(t, 7, res.OrElse(7))
}

func TestAttemptTimesOut(t *testing.T) {
	res := Attempt(context.Background(), "slow fetch", 10*time.Millisecond, func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Second):
			return 1, nil
		}
	})

	require.NotNil(t, res.Err())
	assert.ErrorIs(t, res.Err(), context.DeadlineExceeded)
}

func TestAttemptRespectsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	res := Attempt(ctx, "fetch", testTimeout, func(ctx context.Context) (int, error) {
		called = true
		return 1, nil
	})

	require.NotNil(t, res.Err())
	assert.ErrorIs(t, res.Err(), context.Canceled)
	assert.False(t, called)
}

func TestOrElseFuncReceivesFailure(t *testing.T) {
	res := Fail[string]("lookup", errors.New("missing"))

	got := res.OrElseFunc(func(serr *ServiceError) string {
		assert.Equal(t, "lookup", serr.Op)
		return "default"
	})
	assert.Equal(t, "default", got)

	assert.Equal(t, "value", Ok("value").OrElseFunc(func(*ServiceError) string { return "default" }))
}
