package notify

import (
	"context"
	"fmt"
	"time"
)

// Retry calls fn up to attempts times, sleeping delay*attempt between tries.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if i == attempts {
			break
		}

		timer := time.NewTimer(time.Duration(i) * delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted after %d attempt(s): %w", i, lastErr)
		case <-timer.C:
		}
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
