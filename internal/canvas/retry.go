package canvas

import (
	"context"
	"fmt"
	"time"

	"github.com/jojohnathon/canvas-mcp/internal/observability"
)

const retryAttempts = 3

// withRetry runs fn up to three times, sleeping between attempts, but only
// when the failure is the transient connection-reset class. Any other error
// propagates after the first attempt.
func (c *Client) withRetry(ctx context.Context, operation string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
		if attempt == retryAttempts {
			break
		}

		observability.CanvasRetries().WithLabelValues(operation).Inc()
		c.logger.Warn().
			Err(lastErr).
			Str("operation", operation).
			Int("attempt", attempt).
			Msg("transient canvas failure, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.retryDelay):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, retryAttempts, lastErr)
}
