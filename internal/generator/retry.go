package generator

import (
	"context"
	"fmt"
	"log"
	"time"
)

const maxRetries = 3

// initialBackoff is a var so tests can shrink the delays.
var initialBackoff = 2 * time.Second

// callWithRetry runs fn up to maxRetries times with exponential backoff
// between attempts. Context cancellation aborts the wait immediately.
func callWithRetry[T any](ctx context.Context, label string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	backoff := initialBackoff
	for attempt := 1; attempt <= maxRetries; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < maxRetries {
			log.Printf("WARN: %s attempt %d/%d failed: %v (retrying in %v)", label, attempt, maxRetries, err, backoff)
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", label, maxRetries, lastErr)
}
