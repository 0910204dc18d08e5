// internal/retry/retry.go
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy retries an operation with bounded attempts and exponential
// backoff. The zero value never retries.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Retryable   func(error) bool
}

// Default suits transient persistence errors: 3 attempts, 200ms base.
func Default() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   200 * time.Millisecond,
		Retryable:   IsTransient,
	}
}

// IsTransient treats everything except context cancellation as worth
// retrying. Callers with a narrower view supply their own predicate.
func IsTransient(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Do runs op until it succeeds, attempts run out, or the context ends.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		if err = op(); err == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		backoff := p.BaseDelay << (attempt - 1)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
