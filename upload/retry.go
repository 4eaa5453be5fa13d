package upload

import (
	"context"
	"math/rand"
	"time"

	"github.com/filestack/filestack-go/api"
)

const (
	baseBackoff = 500 * time.Millisecond
	maxBackoff  = 32 * time.Second
)

// backoffDelay returns the delay before the given retry attempt (1-based):
// exponential growth with equal jitter, capped at maxBackoff.
func backoffDelay(attempt int) time.Duration {
	d := baseBackoff
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= maxBackoff {
			d = maxBackoff
			break
		}
	}
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

// sleepCtx sleeps for d or until ctx ends.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// withRetry runs fn, retrying retryable failures up to retries additional
// attempts. partNumber is reported in retry events (0 for session-level
// operations). A server-provided Retry-After overrides a shorter computed
// backoff.
func withRetry(ctx context.Context, retries, partNumber int, onRetry func(RetryEvent), fn func() error) error {
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !api.IsRetryable(err) || attempt >= retries {
			return err
		}

		delay := backoffDelay(attempt + 1)
		if d, ok := api.RetryAfter(err); ok && d > delay {
			delay = d
		}
		if onRetry != nil {
			onRetry(RetryEvent{Part: partNumber, Attempt: attempt + 1, Err: err, Delay: delay})
		}
		if serr := sleepCtx(ctx, delay); serr != nil {
			return serr
		}
	}
}
