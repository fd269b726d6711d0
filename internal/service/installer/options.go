package installer

import (
	"context"
	"io"
	"os/exec"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/ilisfairy/mcl-installer/internal/platform"
	"github.com/ilisfairy/mcl-installer/internal/service/common"
)

const (
	// DefaultAttempts bounds retries of a failed chunk transfer.
	DefaultAttempts = 5

	// versionCommandTimeout caps `java -version`.
	versionCommandTimeout = 10 * time.Second
)

// CommandRunner executes a program and returns its combined output.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ProcessLister enumerates running processes.
type ProcessLister func() ([]ps.Process, error)

// Options are inputs accepted by the installer entry point.
type Options struct {
	// Repo is the MCL repository host.
	Repo string
	// Mirror is the Adoptium mirror host and path prefix.
	Mirror string
	// WorkDir is where java/ and MCL are installed. Empty means the working directory.
	WorkDir string
	// In supplies answers to prompts.
	In io.Reader
	// Out receives the dialogue and progress bars.
	Out io.Writer
	// Platform overrides the detected platform.
	Platform *platform.Tag
	// Client is the HTTP client for every request.
	Client *common.Client
	// Commands runs java -version.
	Commands CommandRunner
	// Processes lists running processes.
	Processes ProcessLister
	// Attempts bounds chunk transfer retries.
	Attempts int
	// WaitOnExit asks for Enter before returning, for double-clicked consoles.
	WaitOnExit bool
}

// execRunner runs real processes.
type execRunner struct{}

// Output implements CommandRunner.
func (execRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, versionCommandTimeout)
	defer cancel()

	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}
