package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var errPermanent = errors.New("permanent")

// noSleep skips backoff waits and records them.
func noSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

// TestRetry_ChunkErrors retries chunk failures until success.
func TestRetry_ChunkErrors(t *testing.T) {
	t.Parallel()

	var delays []time.Duration

	calls := 0
	err := retry(context.Background(), 3, func(context.Context, int) error {
		calls++
		if calls < 3 {
			return &ChunkTransferError{URL: "u", Offset: int64(calls), Err: errPermanent}
		}

		return nil
	}, noSleep(&delays))

	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.Equal(t, []time.Duration{retryBaseDelay, 2 * retryBaseDelay}, delays)
}

// TestRetry_StopsOnOtherErrors does not repeat non-chunk failures.
func TestRetry_StopsOnOtherErrors(t *testing.T) {
	t.Parallel()

	var delays []time.Duration

	calls := 0
	err := retry(context.Background(), 5, func(context.Context, int) error {
		calls++
		return errPermanent
	}, noSleep(&delays))

	require.ErrorIs(t, err, errPermanent)
	require.Equal(t, 1, calls)
	require.Empty(t, delays)
}

// TestRetry_Exhausted returns the last chunk failure.
func TestRetry_Exhausted(t *testing.T) {
	t.Parallel()

	var delays []time.Duration

	err := retry(context.Background(), 2, func(_ context.Context, attempt int) error {
		return &ChunkTransferError{URL: "u", Offset: int64(attempt), Err: errPermanent}
	}, noSleep(&delays))

	var chunkErr *ChunkTransferError
	require.ErrorAs(t, err, &chunkErr)
	require.Equal(t, int64(2), chunkErr.Offset)
	require.Len(t, delays, 1)
}

// TestRetry_ContextCanceled stops waiting when the context ends.
func TestRetry_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, func(context.Context, int) error {
		return &ChunkTransferError{URL: "u", Err: errPermanent}
	})
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, err, ErrChunkTransfer)
}

// TestRetryDelayForAttempt doubles up to the cap.
func TestRetryDelayForAttempt(t *testing.T) {
	t.Parallel()

	require.Equal(t, retryBaseDelay, retryDelayForAttempt(1))
	require.Equal(t, 4*retryBaseDelay, retryDelayForAttempt(3))
	require.Equal(t, retryMaxDelay, retryDelayForAttempt(50))
}
