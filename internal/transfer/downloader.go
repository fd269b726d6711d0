package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
	"github.com/ilisfairy/mcl-installer/internal/repository/checkpoint"
	"github.com/ilisfairy/mcl-installer/internal/service/common"
)

// DefaultChunkSize is the size of every range request.
const DefaultChunkSize = 10240

// ProgressFunc receives the transferred and total byte counts after each chunk.
type ProgressFunc func(transferred, total int64)

// Client is the HTTP surface the downloader needs.
type Client interface {
	Do(ctx context.Context, method, url string, header http.Header) (*http.Response, error)
	Head(ctx context.Context, url string) (*http.Response, error)
}

// Downloader performs chunked range transfers.
type Downloader struct {
	// client sends HEAD and range requests.
	client Client
	// chunkSize is the nominal length of each range.
	chunkSize int64
	// progress is called after the probe and after every chunk.
	progress ProgressFunc
	// checkpoints, when set, receives the task after every chunk.
	checkpoints checkpoint.Repository
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithChunkSize overrides the range size. Intended for tests.
func WithChunkSize(size int64) Option {
	return func(d *Downloader) {
		if size > 0 {
			d.chunkSize = size
		}
	}
}

// WithProgressFunc registers a progress callback.
func WithProgressFunc(fn ProgressFunc) Option {
	return func(d *Downloader) {
		d.progress = fn
	}
}

// WithCheckpoints persists the task after every chunk and clears it on success.
func WithCheckpoints(repo checkpoint.Repository) Option {
	return func(d *Downloader) {
		d.checkpoints = repo
	}
}

// NewDownloader creates a Downloader using client for all requests.
func NewDownloader(client Client, opts ...Option) *Downloader {
	d := &Downloader{
		client:    client,
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Probe returns the resource size from a HEAD request.
func (d *Downloader) Probe(ctx context.Context, url string) (int64, error) {
	resp, err := d.client.Head(ctx, url)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w", url, err)
	}

	raw := resp.Header.Get("Content-Length")
	if raw == "" {
		return 0, fmt.Errorf("probe %s: %w", url, ErrSizeUnknown)
	}

	total, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || total < 0 {
		return 0, fmt.Errorf("probe %s: Content-Length %q: %w", url, raw, ErrSizeUnknown)
	}

	return total, nil
}

// Download fetches url into destination, replacing any existing file.
func (d *Downloader) Download(ctx context.Context, url, destination string) error {
	total, err := d.Probe(ctx, url)
	if err != nil {
		return err
	}

	task, err := install.NewDownloadTask(url, destination, total)
	if err != nil {
		return err
	}

	file, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("create %s: %w: %w", destination, install.ErrFilesystem, err)
	}

	return d.run(ctx, file, task)
}

// Resume continues task from task.Transferred. The destination must hold at
// least that many bytes; anything past it was never acknowledged and is cut.
func (d *Downloader) Resume(ctx context.Context, task *install.DownloadTask) error {
	info, err := os.Stat(task.Destination)
	if err != nil {
		return fmt.Errorf("stat %s: %w: %w", task.Destination, install.ErrFilesystem, err)
	}

	if info.Size() < task.Transferred {
		return fmt.Errorf("%s has %d bytes, task expects %d: %w",
			task.Destination, info.Size(), task.Transferred, ErrPartialMismatch)
	}

	file, err := os.OpenFile(task.Destination, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w: %w", task.Destination, install.ErrFilesystem, err)
	}

	if err = file.Truncate(task.Transferred); err != nil {
		_ = file.Close()
		return fmt.Errorf("truncate %s: %w: %w", task.Destination, install.ErrFilesystem, err)
	}

	if _, err = file.Seek(task.Transferred, io.SeekStart); err != nil {
		_ = file.Close()
		return fmt.Errorf("seek %s: %w: %w", task.Destination, install.ErrFilesystem, err)
	}

	return d.run(ctx, file, task)
}

// run drives the chunk loop and owns file.
func (d *Downloader) run(ctx context.Context, file *os.File, task *install.DownloadTask) error {
	err := d.loop(ctx, file, task)

	if closeErr := file.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("close %s: %w: %w", task.Destination, install.ErrFilesystem, closeErr)
	}

	if err != nil {
		return err
	}

	if d.checkpoints != nil {
		return d.checkpoints.Delete(ctx)
	}

	return nil
}

func (d *Downloader) loop(ctx context.Context, file *os.File, task *install.DownloadTask) error {
	buf := make([]byte, d.chunkSize)

	d.report(task)

	for !task.Done() {
		n, err := d.fetchChunk(ctx, task, buf)
		if err != nil {
			return &ChunkTransferError{URL: task.URL, Offset: task.Transferred, Err: err}
		}

		if _, err = file.Write(buf[:n]); err != nil {
			return fmt.Errorf("write %s at byte %d: %w: %w", task.Destination, task.Transferred, install.ErrFilesystem, err)
		}

		if err = task.Advance(int64(n)); err != nil {
			return err
		}

		if d.checkpoints != nil {
			if err = d.checkpoints.Save(ctx, task); err != nil {
				return err
			}
		}

		d.report(task)
	}

	return nil
}

// fetchChunk reads the next range into buf and returns the received length.
// The upper bound may pass the end of the resource; servers clamp it.
func (d *Downloader) fetchChunk(ctx context.Context, task *install.DownloadTask, buf []byte) (int, error) {
	start := task.Transferred
	end := start + d.chunkSize - 1

	header := http.Header{}
	header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	resp, err := d.client.Do(ctx, http.MethodGet, task.URL, header)
	if err != nil {
		return 0, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if err = common.CheckStatus(resp); err != nil {
		return 0, err
	}

	// A plain 200 carries the resource from byte 0; only usable for the first chunk.
	if resp.StatusCode != http.StatusPartialContent && start > 0 {
		return 0, errRangeIgnored
	}

	limit := min(int64(len(buf)), task.Remaining())

	n, err := io.ReadFull(resp.Body, buf[:limit])
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("read body: %w: %w", install.ErrNetwork, err)
	}

	if n == 0 {
		return 0, errEmptyChunk
	}

	return n, nil
}

func (d *Downloader) report(task *install.DownloadTask) {
	if d.progress != nil {
		d.progress(task.Transferred, task.Total)
	}
}
