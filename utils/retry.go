package utils

import (
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryConfig holds the parameters for the retry strategy.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *Logger
}

// Do executes fn with exponential back-off retry logic.
func (r *RetryConfig) Do(operationName string, fn func() error) error {
	attempts := r.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	err := retry.Do(
		fn,
		retry.Attempts(uint(attempts)),
		retry.Delay(r.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			if r.Logger != nil {
				r.Logger.Warn("[retry] %s failed (attempt %d/%d): %v", operationName, n+1, attempts, err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("%s failed after %d attempts: %w", operationName, attempts, err)
	}
	return nil
}
