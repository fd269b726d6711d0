package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/ilisfairy/mcl-installer/internal/adoptium"
	"github.com/ilisfairy/mcl-installer/internal/logger"
	"github.com/ilisfairy/mcl-installer/internal/manifest"
	"github.com/ilisfairy/mcl-installer/internal/platform"
	"github.com/ilisfairy/mcl-installer/internal/progress"
	"github.com/ilisfairy/mcl-installer/internal/prompt"
	"github.com/ilisfairy/mcl-installer/internal/service/common"
	"github.com/ilisfairy/mcl-installer/internal/version"
)

const (
	// javaDirName is the canonical runtime directory.
	javaDirName = "java"
	// runtimeArchiveName and appArchiveName are temporary download targets.
	runtimeArchiveName = "java.arc"
	appArchiveName     = "mcl.zip"
	// jarName is the MCL launcher jar.
	jarName = "mcl.jar"
)

var errOutputNotSet = errors.New("output writer is not set")

// runner holds the state of a single installation.
type runner struct {
	opts     *Options
	workDir  string
	tag      platform.Tag
	client   *common.Client
	prompter *prompt.Prompter
	renderer *progress.Renderer
	out      io.Writer
	commands CommandRunner
	procs    ProcessLister
	attempts int
}

// Run executes the installer and is the public entry point for the CLI.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "mcl-installer")

	r, err := newRunner(opts)
	if err != nil {
		return err
	}

	if err = r.run(ctx); err != nil {
		logger.ErrorKV(ctx, "Installation failed", "error", err)
		return err
	}

	logger.Debug(ctx, "Installation completed")

	return nil
}

func newRunner(opts *Options) (*runner, error) {
	if opts.Out == nil {
		return nil, errOutputNotSet
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir = "."
	}

	absWorkDir, err := filepath.Abs(workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", workDir, err)
	}

	r := &runner{
		opts:     opts,
		workDir:  absWorkDir,
		tag:      platform.Resolve(),
		client:   opts.Client,
		out:      opts.Out,
		commands: opts.Commands,
		procs:    opts.Processes,
		attempts: opts.Attempts,
	}

	if opts.Platform != nil {
		r.tag = *opts.Platform
	}

	if r.client == nil {
		r.client = common.NewClient()
	}

	if r.commands == nil {
		r.commands = execRunner{}
	}

	if r.procs == nil {
		r.procs = ps.Processes
	}

	if r.attempts <= 0 {
		r.attempts = DefaultAttempts
	}

	in := opts.In
	if in == nil {
		in = os.Stdin
	}

	r.prompter = prompt.New(in, opts.Out)
	r.renderer = progress.NewRenderer(opts.Out)

	return r, nil
}

// run executes the workflow:
// 1) Print the banner and check the install directory.
// 2) Report the current Java installation.
// 3) Install the runtime if asked.
// 4) Install MCL if asked and point its script at the runtime.
func (r *runner) run(ctx context.Context) error {
	r.banner()

	if err := checkWritable(r.workDir); err != nil {
		return err
	}

	javaInstalled := r.checkExistingRuntime(ctx)

	r.say("")

	installJava, err := r.prompter.YesNo("Would you like to install Java?", true)
	if err != nil {
		return err
	}

	if installJava && !r.confirmNoRunningJava(ctx) {
		installJava = false
	}

	javaPath := r.findJava()

	if installJava {
		if javaPath, err = r.installRuntime(ctx, javaInstalled); err != nil {
			return fmt.Errorf("install java: %w", err)
		}
	}

	if err = r.installApplication(ctx, javaPath, installJava); err != nil {
		return fmt.Errorf("install mcl: %w", err)
	}

	if r.opts.WaitOnExit {
		return r.prompter.Wait("Press Enter to exit.")
	}

	return nil
}

func (r *runner) banner() {
	r.say("iTXTech MCL Installer %s [OS: %s]", version.Short(), r.tag.OS)
	r.say("Licensed under GNU AGPLv3.")
	r.say("https://github.com/iTXTech/mcl-installer")
	r.say("")
	r.say("iTXTech MCL and Java will be downloaded to %q", r.workDir)
	r.say("")
}

// say prints one line of dialogue.
func (r *runner) say(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// path resolves name inside the install directory.
func (r *runner) path(name string) string {
	return filepath.Join(r.workDir, name)
}

func (r *runner) mirror() string {
	if r.opts.Mirror == "" {
		return adoptium.DefaultMirror
	}

	return r.opts.Mirror
}

func (r *runner) repo() string {
	if r.opts.Repo == "" {
		return manifest.DefaultRepo
	}

	return r.opts.Repo
}
