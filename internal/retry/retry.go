package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/FranLegon/drive-folder-cleaner/internal/logger"
)

// Permanent wraps err so that Do gives up immediately
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do calls fn up to maxAttempts times with exponential backoff and jitter,
// starting at baseDelay. It stops early when ctx is done or fn returns an
// error wrapped with Permanent, and returns the last error.
func Do(ctx context.Context, maxAttempts int, baseDelay time.Duration, fn func() error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = baseDelay
	eb.Multiplier = 2
	eb.RandomizationFactor = 0.5
	eb.MaxElapsedTime = 0

	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(maxAttempts-1)), ctx)

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		return fn()
	}, b, func(err error, delay time.Duration) {
		logger.Warning("[RETRY] Attempt %d failed: %v. Retrying in %v...", attempt, err, delay)
	})
}
