package retry

import (
	"context"
	"time"

	ai "github.com/callaby/bowline"
)

// Do calls fn until it succeeds, fails permanently, or attempts run out.
// Only errors classified transient by ai.IsTransient are retried. A
// Retry-After hint on the error replaces the computed backoff delay.
func Do[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var zero T
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !ai.IsTransient(err) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		delay := cfg.Delay(attempt)
		if hint := ai.RetryAfterOf(err); hint > 0 {
			delay = hint
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	return zero, lastErr
}
