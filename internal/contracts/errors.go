package contracts

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel failure modes of the external collaborators.
var (
	// ErrNotFound - the ticker does not exist at the provider.
	ErrNotFound = errors.New("ticker not found")
	// ErrRateLimited - the provider rejected the call; retryable.
	ErrRateLimited = errors.New("rate limited")
	// ErrPartialData - the provider returned fewer line items than needed.
	ErrPartialData = errors.New("partial data")
	// ErrTruncated - the generated text was cut off; retryable.
	ErrTruncated = errors.New("report truncated")
)

// DataUnavailableError is fatal once fetch retries are exhausted.
type DataUnavailableError struct {
	Ticker string
	Reason string
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable for %s: %s", e.Ticker, e.Reason)
}

// ConfigError marks an invalid policy table. Always fatal at startup.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsRetryable reports whether an external failure should be retried by the
// orchestrator's policy. Anything else propagates or degrades immediately.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTruncated) ||
		errors.Is(err, context.DeadlineExceeded)
}
