package sync

import (
	"context"
	"time"
)

// retryWithBackoff runs fn up to maxAttempts times, doubling the delay
// between attempts starting from baseDelay. The final failed attempt's
// error propagates. Backoff sleeps respect context cancellation so a
// stuck retry loop never outlives its caller.
func retryWithBackoff(
	ctx context.Context,
	maxAttempts int,
	baseDelay time.Duration,
	fn func() error,
	onRetry func(attempt int, delay time.Duration, err error),
) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		delay := baseDelay << (attempt - 1)
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}
