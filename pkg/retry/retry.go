package retry

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultJitterMax   = time.Second
)

// Policy bounds a retry loop: at most MaxAttempts calls, with the wait before
// attempt i+1 being BaseDelay*2^i plus a uniform random jitter. The policy is
// read-only and safe to share between call sites.
type Policy struct {
	MaxAttempts int           `envconfig:"MAX_ATTEMPTS" split_words:"true" default:"3"`
	BaseDelay   time.Duration `envconfig:"BASE_DELAY" split_words:"true" default:"1s"`
	JitterMax   time.Duration `envconfig:"JITTER_MAX" split_words:"true" default:"1s"`
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.JitterMax < 0 {
		p.JitterMax = DefaultJitterMax
	}
	return p
}

// ExhaustedError reports that every attempt failed with a retryable error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retries exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Do runs fn until it succeeds, fails with a non-retryable error, or the
// policy's attempt budget runs out. A non-retryable error is returned as-is
// with no further attempts; exhaustion returns an *ExhaustedError wrapping
// the last failure. fn is called exactly once per attempt, never more than
// MaxAttempts times.
func Do[T any](ctx context.Context, p Policy, retryable func(error) bool, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	p = p.normalized()

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, backoffDelay(p, attempt-1)); err != nil {
				return zero, err
			}
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		if retryable == nil || !retryable(err) {
			return zero, err
		}
		lastErr = err
	}

	return zero, &ExhaustedError{Attempts: p.MaxAttempts, Last: lastErr}
}

func backoffDelay(p Policy, attempt int) time.Duration {
	delay := p.BaseDelay << uint(attempt)
	if p.JitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(p.JitterMax)))
	}
	return delay
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
