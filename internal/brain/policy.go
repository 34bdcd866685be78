package brain

import (
	"context"
	"time"

	"github.com/verdictlab/verdict/internal/contracts"
)

// RetryPolicy bounds how long the orchestrator fights a flaky collaborator
// before degrading the stage. Backoff doubles from InitialDelay up to
// MaxDelay.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Retryable    func(error) bool
}

// DefaultRetryPolicy matches the pacing expected by free-tier reasoning
// APIs: a few attempts, seconds apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  3,
		InitialDelay: 2 * time.Second,
		MaxDelay:     30 * time.Second,
		Retryable:    contracts.IsRetryable,
	}
}

// Do runs fn until it succeeds, the error is not retryable, attempts are
// exhausted, or the context ends. Returns the last error and the number of
// attempts made.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) (int, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.InitialDelay
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return attempt - 1, ctx.Err()
		}

		err = fn(ctx)
		if err == nil {
			return attempt, nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return attempt, err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if p.MaxDelay > 0 && delay > p.MaxDelay {
			delay = p.MaxDelay
		}
	}
	return attempts, err
}
