package version

import (
	"fmt"
	"runtime/debug"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the semantic version of the installer.
	Version = "1.0.7"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

const shortCommitLength = 7

// Short returns only the version string, normalized when Version is valid semver.
func Short() string {
	return normalize(Version)
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	commit, built := Commit, BuildTime
	if commit == "none" || built == "unknown" {
		vcsCommit, vcsTime := vcsStamp()
		if commit == "none" && vcsCommit != "" {
			commit = vcsCommit
		}

		if built == "unknown" && vcsTime != "" {
			built = vcsTime
		}
	}

	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Short(), commit, built)
}

// Semver parses Version.
func Semver() (*semver.Version, error) {
	return parse(Version)
}

// normalize strips a leading "v" and fills missing components ("v1.2" -> "1.2.0").
// Strings that are not semver, such as "dev", are returned as is.
func normalize(raw string) string {
	v, err := parse(raw)
	if err != nil {
		return raw
	}

	return v.String()
}

func parse(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("parse installer version %q: %w", raw, err)
	}

	return v, nil
}

func vcsStamp() (string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", ""
	}

	var revision, modified string

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.time":
			modified = setting.Value
		}
	}

	if len(revision) > shortCommitLength {
		revision = revision[:shortCommitLength]
	}

	return revision, modified
}
