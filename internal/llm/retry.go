package llm

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds local retries of transient generation failures.
// Timeouts and rate limits are retried with exponential backoff; every other
// failure kind propagates immediately.
type RetryPolicy struct {
	MaxRetries int           `json:"max_retries" validate:"min=0"`
	BaseDelay  time.Duration `json:"base_delay" validate:"min=0"`
}

// DefaultRetryPolicy returns the default bound of 2 retries with a 500ms base delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
	}
}

// backoffDelay returns the delay before the given retry attempt (1-based),
// doubling the base delay each attempt.
func (p RetryPolicy) backoffDelay(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	return delay
}

// withRetry invokes fn, retrying transient GenerationErrors up to the policy
// bound. The last error is returned once retries are exhausted. Cancellation
// of ctx aborts the backoff wait.
func withRetry(ctx context.Context, policy RetryPolicy, fn func() (string, error)) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(policy.backoffDelay(attempt)):
			case <-ctx.Done():
				return "", &GenerationError{
					Kind:    KindTimeout,
					Message: "cancelled while waiting to retry",
					Cause:   ctx.Err(),
				}
			}
		}

		text, err := fn()
		if err == nil {
			return text, nil
		}
		lastErr = err

		var genErr *GenerationError
		if !errors.As(err, &genErr) || !genErr.Transient() {
			return "", err
		}
	}

	return "", lastErr
}
