package queue

import (
	"context"
	"time"
)

// Redelivery policy for transport failures. A message is attempted at most
// maxDeliveryAttempts times; each redelivery waits out an exponentially
// growing delay so a platform outage cannot spin a dispatch loop.
const (
	maxDeliveryAttempts = 5
	baseRetryDelay      = 500 * time.Millisecond
	maxRetryDelay       = 30 * time.Second
)

// retryDelay returns the backoff before the next delivery given the number
// of completed attempts, doubling from baseRetryDelay up to maxRetryDelay.
func retryDelay(attempts int) time.Duration {
	delay := baseRetryDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}

// waitRetry blocks for the backoff delay of the given attempt count.
// Returns false when the context is cancelled before the delay elapses.
func waitRetry(ctx context.Context, attempts int) bool {
	timer := time.NewTimer(retryDelay(attempts))
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
