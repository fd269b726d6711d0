package install

import (
	"errors"
	"fmt"
)

var (
	// ErrTransferOverflow is returned when progress would move past the total size.
	ErrTransferOverflow = fmt.Errorf("%w: transferred bytes exceed total size", ErrNetwork)
	// ErrTransferRegression is returned when progress would move backwards or stall.
	ErrTransferRegression = fmt.Errorf("%w: transferred bytes must strictly increase", ErrNetwork)

	errNegativeTotal = errors.New("total size must not be negative")
)

// DownloadTask tracks one resource being transferred to a local file.
// Total is fixed once probed; Transferred only grows through Advance.
type DownloadTask struct {
	// URL is the remote resource.
	URL string
	// Destination is the local file receiving the bytes.
	Destination string
	// Total is the resource size reported by the server.
	Total int64
	// Transferred is the number of bytes already written to Destination.
	Transferred int64
}

// NewDownloadTask creates a task for a resource of the given size.
func NewDownloadTask(url, destination string, total int64) (*DownloadTask, error) {
	if total < 0 {
		return nil, errNegativeTotal
	}

	return &DownloadTask{
		URL:         url,
		Destination: destination,
		Total:       total,
	}, nil
}

// Advance records n more bytes written to the destination.
func (t *DownloadTask) Advance(n int64) error {
	if n <= 0 {
		return fmt.Errorf("advance by %d at offset %d: %w", n, t.Transferred, ErrTransferRegression)
	}

	if t.Transferred+n > t.Total {
		return fmt.Errorf("advance by %d at offset %d of %d: %w", n, t.Transferred, t.Total, ErrTransferOverflow)
	}

	t.Transferred += n

	return nil
}

// Remaining returns how many bytes are still missing.
func (t *DownloadTask) Remaining() int64 {
	return t.Total - t.Transferred
}

// Done reports whether the whole resource has been transferred.
func (t *DownloadTask) Done() bool {
	return t.Transferred >= t.Total
}

// Percent returns completion in the 0–100 range. An empty resource is complete.
func (t *DownloadTask) Percent() float64 {
	if t.Total == 0 {
		return 100
	}

	return float64(t.Transferred) * 100 / float64(t.Total)
}
