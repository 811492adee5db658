package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// DefaultUnit is the base backoff delay when Policy.Unit is unset.
const DefaultUnit = time.Second

// Policy configures how many times an operation is retried and how long to wait.
type Policy struct {
	// MaxRetries is the number of attempts after the initial one.
	MaxRetries int
	// Unit is the delay before the first retry. Each further retry doubles it.
	Unit time.Duration
}

func (p Policy) unit() time.Duration {
	if p.Unit <= 0 {
		return DefaultUnit
	}
	return p.Unit
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.unit()),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(time.Duration(math.MaxInt64)),
		backoff.WithMaxElapsedTime(0),
	)
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// Do runs fn until it succeeds or the policy is exhausted, and returns the last
// error unchanged. Errors wrapped with Permanent are returned without retrying.
// Every retry is logged with its attempt number and delay.
func Do[T any](ctx context.Context, p Policy, logger *zap.Logger, op string, fn func() (T, error)) (T, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	attempt := 0
	notify := func(err error, delay time.Duration) {
		attempt++
		logger.Warn("Operation failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("max_retries", p.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)
	}

	return backoff.RetryNotifyWithData(backoff.OperationWithData[T](fn), p.backOff(ctx), notify)
}

// Permanent marks err as not worth retrying. Do returns the wrapped error itself.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
