package installer

import (
	"context"
	"errors"
	"os"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
	"github.com/ilisfairy/mcl-installer/internal/logger"
	"github.com/ilisfairy/mcl-installer/internal/progress"
	"github.com/ilisfairy/mcl-installer/internal/repository/checkpoint"
	"github.com/ilisfairy/mcl-installer/internal/transfer"
)

// download fetches url into destination with a progress bar. A failed chunk
// is retried from the last checkpoint; a checkpoint left by an interrupted
// run for the same url and destination is resumed.
func (r *runner) download(ctx context.Context, url, destination string) error {
	r.say("Start Downloading: %s", url)

	checkpoints := checkpoint.NewFileRepository(r.path(checkpoint.DefaultFilename))

	return progress.Track(ctx, r.renderer, func(ctx context.Context, report progress.Reporter) error {
		downloader := transfer.NewDownloader(r.client,
			transfer.WithCheckpoints(checkpoints),
			transfer.WithProgressFunc(func(transferred, total int64) {
				report(progress.Update{Label: "downloading", Current: transferred, Total: total})
			}),
		)

		return transfer.Retry(ctx, r.attempts, func(ctx context.Context, attempt int) error {
			task, err := resumableTask(ctx, checkpoints, url, destination)
			if err != nil {
				return err
			}

			if task == nil {
				return downloader.Download(ctx, url, destination)
			}

			logger.InfoKV(ctx, "Resuming download", "url", url, "offset", task.Transferred, "attempt", attempt)

			return downloader.Resume(ctx, task)
		})
	})
}

// resumableTask returns the checkpointed task for url and destination, or
// nil when the transfer has to start over. Foreign checkpoints are dropped.
func resumableTask(ctx context.Context, repo checkpoint.Repository, url, destination string) (*install.DownloadTask, error) {
	task, err := repo.Load(ctx)
	if errors.Is(err, checkpoint.ErrNotFound) {
		return nil, nil //nolint:nilnil // No checkpoint is not an error.
	}

	if err != nil {
		logger.WarnKV(ctx, "Discarding unreadable checkpoint", "error", err)
		return nil, repo.Delete(ctx)
	}

	if task.URL != url || task.Destination != destination || task.Done() {
		return nil, repo.Delete(ctx)
	}

	if info, statErr := os.Stat(destination); statErr != nil || info.Size() < task.Transferred {
		logger.WarnKV(ctx, "Partial download is missing or short, starting over", "path", destination)
		return nil, repo.Delete(ctx)
	}

	return task, nil
}
