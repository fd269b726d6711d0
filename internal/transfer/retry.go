package transfer

import (
	"context"
	"errors"
	"time"
)

const (
	// retryBaseDelay is the wait before the second attempt; it doubles afterwards.
	retryBaseDelay = 500 * time.Millisecond
	// retryMaxDelay caps the wait between attempts.
	retryMaxDelay = 8 * time.Second
)

// Retry calls fn up to attempts times with exponential backoff between calls.
// Only *ChunkTransferError is retried; any other error, or ctx ending during
// backoff, returns immediately.
func Retry(ctx context.Context, attempts int, fn func(ctx context.Context, attempt int) error) error {
	return retry(ctx, attempts, fn, waitForBackoff)
}

func retry(
	ctx context.Context,
	attempts int,
	fn func(ctx context.Context, attempt int) error,
	sleep func(ctx context.Context, d time.Duration) error,
) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx, attempt); err == nil {
			return nil
		}

		var chunkErr *ChunkTransferError
		if !errors.As(err, &chunkErr) || attempt == attempts {
			return err
		}

		if waitErr := sleep(ctx, retryDelayForAttempt(attempt)); waitErr != nil {
			return errors.Join(err, waitErr)
		}
	}

	return err
}

func retryDelayForAttempt(attempt int) time.Duration {
	delay := retryBaseDelay
	for i := 1; i < attempt && delay < retryMaxDelay; i++ {
		delay *= 2
	}

	return min(delay, retryMaxDelay)
}

func waitForBackoff(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
