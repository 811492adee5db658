package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"page-store/core/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fastPolicy(retries int) retry.Policy {
	return retry.Policy{MaxRetries: retries, Unit: time.Millisecond}
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	calls := 0

	got, err := retry.Do(context.Background(), fastPolicy(3), zap.New(core), "get", func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "payload", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "payload", got)
	assert.Equal(t, 3, calls)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, int64(1), entries[0].ContextMap()["attempt"])
	assert.Equal(t, time.Millisecond, entries[0].ContextMap()["delay"])
	assert.Equal(t, int64(2), entries[1].ContextMap()["attempt"])
	assert.Equal(t, 2*time.Millisecond, entries[1].ContextMap()["delay"])
}

func TestDo_ExhaustsBudget(t *testing.T) {
	last := errors.New("attempt failure")
	calls := 0

	_, err := retry.Do(context.Background(), fastPolicy(3), nil, "put", func() (struct{}, error) {
		calls++
		return struct{}{}, last
	})

	assert.Same(t, last, err)
	assert.Equal(t, 4, calls, "initial attempt plus three retries")
}

func TestDo_ZeroRetries(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), fastPolicy(0), nil, "list", func() (int, error) {
		calls++
		return 0, errors.New("nope")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_NoRetryAfterSuccess(t *testing.T) {
	calls := 0
	got, err := retry.Do(context.Background(), fastPolicy(3), nil, "stat", func() (bool, error) {
		calls++
		return true, nil
	})

	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 1, calls)
}

func TestDo_Permanent(t *testing.T) {
	missing := errors.New("missing")
	calls := 0

	_, err := retry.Do(context.Background(), fastPolicy(3), nil, "get", func() ([]byte, error) {
		calls++
		return nil, retry.Permanent(missing)
	})

	assert.Same(t, missing, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := retry.Do(ctx, retry.Policy{MaxRetries: 5, Unit: time.Hour}, nil, "get", func() (int, error) {
		calls++
		cancel()
		return 0, errors.New("transient")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_DelaysDoubleEachRetry(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	_, err := retry.Do(context.Background(), fastPolicy(3), zap.New(core), "list", func() (int, error) {
		return 0, errors.New("transient")
	})
	require.Error(t, err)

	var delays []time.Duration
	for _, e := range logs.All() {
		delays = append(delays, e.ContextMap()["delay"].(time.Duration))
	}
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
}
