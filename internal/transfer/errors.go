package transfer

import (
	"fmt"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

var (
	// ErrSizeUnknown is returned when HEAD yields no usable Content-Length.
	ErrSizeUnknown = fmt.Errorf("%w: content length unknown", install.ErrNetwork)
	// ErrChunkTransfer is the sentinel matched by every ChunkTransferError.
	ErrChunkTransfer = fmt.Errorf("%w: chunk transfer failed", install.ErrNetwork)
	// ErrPartialMismatch is returned when a partial file disagrees with its task.
	ErrPartialMismatch = fmt.Errorf("%w: partial file does not match transferred bytes", install.ErrFilesystem)

	errEmptyChunk   = fmt.Errorf("%w: server returned an empty range", install.ErrNetwork)
	errRangeIgnored = fmt.Errorf("%w: server ignored the range request", install.ErrNetwork)
)

// ChunkTransferError reports the chunk that failed and where it started.
type ChunkTransferError struct {
	// URL is the resource being downloaded.
	URL string
	// Offset is the first byte of the failed range.
	Offset int64
	// Err is the underlying failure.
	Err error
}

// Error implements error.
func (e *ChunkTransferError) Error() string {
	return fmt.Sprintf("transfer %s at byte %d: %v", e.URL, e.Offset, e.Err)
}

// Unwrap exposes both the sentinel and the cause to errors.Is/As.
func (e *ChunkTransferError) Unwrap() []error {
	return []error{ErrChunkTransfer, e.Err}
}
