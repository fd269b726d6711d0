package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ilisfairy/mcl-installer/internal/logger"
	"github.com/ilisfairy/mcl-installer/internal/manifest"
	"github.com/ilisfairy/mcl-installer/internal/service/common"
)

// manifestSummary is what `manifest` prints.
type manifestSummary struct {
	URL          string              `yaml:"url"`
	Announcement string              `yaml:"announcement,omitempty"`
	Type         string              `yaml:"type,omitempty"`
	Channels     map[string][]string `yaml:"channels"`
	Latest       string              `yaml:"latest_stable,omitempty"`
	Archive      string              `yaml:"archive,omitempty"`
	Ordered      bool                `yaml:"stable_ordered"`
	Versions     []string            `yaml:"versions_with_archives,omitempty"`
}

func newManifestCommand() *cobra.Command {
	var schema bool

	cmd := &cobra.Command{
		Use:   "manifest [repo-host]",
		Short: "Show the MCL package manifest or its JSON schema",
		Long: "Fetches the package manifest from the repository and prints the channels, the latest stable " +
			"version and its archive. With --schema, prints the JSON schema the manifest is parsed against.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if schema {
				data, err := manifest.Schema()
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))

				return err
			}

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

			pkg, err := manifest.Fetch(ctx, common.NewClient(), repo)
			if err != nil {
				logger.ErrorKV(ctx, "Unable to fetch manifest", "error", err)
				return err
			}

			return printManifest(cmd.OutOrStdout(), repo, pkg)
		},
	}

	cmd.Flags().BoolVar(&schema, "schema", false, "print the manifest JSON schema instead of fetching it")

	return cmd
}

// printManifest renders a manifest summary as YAML.
func printManifest(w io.Writer, repo string, pkg *manifest.Manifest) error {
	summary := manifestSummary{
		URL:          manifest.URL(repo),
		Announcement: pkg.AnnouncementText(),
		Channels:     pkg.Channels,
		Ordered:      true,
	}

	if pkg.Type != nil {
		summary.Type = *pkg.Type
	}

	for v := range pkg.Repo {
		summary.Versions = append(summary.Versions, v)
	}

	slices.Sort(summary.Versions)

	if latest, err := manifest.ResolveVersion(pkg, manifest.StableChannel); err == nil {
		summary.Latest = latest
		summary.Ordered = manifest.CheckOrdering(pkg.Channels[manifest.StableChannel]).Consistent()

		if url, err := manifest.ResolveArchiveURL(pkg, latest); err == nil {
			summary.Archive = url
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encode manifest summary: %w", err)
	}

	return enc.Close()
}
