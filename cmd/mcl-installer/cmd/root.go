package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ilisfairy/mcl-installer/internal/config"
	"github.com/ilisfairy/mcl-installer/internal/logger"
	"github.com/ilisfairy/mcl-installer/internal/service/installer"
	"github.com/ilisfairy/mcl-installer/internal/version"
)

// rootCmd installs Java and MCL into the working directory.
//
//nolint:gochecknoglobals // Cobra command tree.
var rootCmd = &cobra.Command{
	Use:   "mcl-installer [repo-host]",
	Short: "Install a Java runtime and iTXTech MCL into the current directory",
	Long: "Downloads a Java runtime from an Adoptium mirror and the latest stable iTXTech MCL " +
		"from the package repository, then points the MCL launch script at the installed runtime. " +
		"The optional argument overrides the repository host (default " + config.Default().Repo + "). " +
		"Settings are read from " + config.DefaultConfigFilename + " when present.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		cfg, err := loadSettings(ctx)
		if err != nil {
			return err
		}

		repo := cfg.Repo
		if len(args) == 1 {
			repo = args[0]
		}

		options := &installer.Options{
			Repo:       repo,
			Mirror:     cfg.Mirror,
			In:         cmd.InOrStdin(),
			Out:        cmd.OutOrStdout(),
			WaitOnExit: true,
		}

		return installer.Run(ctx, options)
	},
}

// Execute runs the mcl-installer CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)
	rootCmd.AddCommand(newManifestCommand())

	err := rootCmd.Execute()

	logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

// loadSettings reads the settings file and applies its log level.
func loadSettings(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(config.DefaultConfigFilename)
	if err != nil {
		logger.ErrorKV(ctx, "Unable to load settings", "path", config.DefaultConfigFilename, "error", err)
		return nil, err
	}

	level, err := logger.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	logger.SetLevel(level)

	return cfg, nil
}
