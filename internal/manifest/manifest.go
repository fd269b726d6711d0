package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

const (
	// DefaultRepo is the repository host used when none is given.
	DefaultRepo = "mirai.mamoe.net/assets/mcl"

	// StableChannel is the channel the installer follows.
	StableChannel = "stable"

	// packagePath is appended to the repository host.
	packagePath = "/org/itxtech/mcl/package.json"
)

var (
	// ErrManifestFetch is returned when the manifest cannot be downloaded.
	ErrManifestFetch = fmt.Errorf("%w: fetch manifest", install.ErrNetwork)
	// ErrManifestParse is returned when the manifest does not match the expected shape.
	ErrManifestParse = fmt.Errorf("%w: parse manifest", install.ErrManifest)
	// ErrUnknownChannel is returned when the requested channel is absent.
	ErrUnknownChannel = fmt.Errorf("%w: unknown channel", install.ErrManifest)
	// ErrEmptyChannel is returned when the channel has no versions.
	ErrEmptyChannel = fmt.Errorf("%w: channel has no versions", install.ErrManifest)
	// ErrUnknownVersion is returned when the version has no repo entry.
	ErrUnknownVersion = fmt.Errorf("%w: unknown version", install.ErrManifest)
	// ErrMissingArchive is returned when a repo entry has no archive URL.
	ErrMissingArchive = fmt.Errorf("%w: version has no archive", install.ErrManifest)

	errMissingChannels = errors.New(`required field "channels" is missing`)
)

// Manifest is the parsed remote descriptor.
type Manifest struct {
	// Announcement is an optional message shown to users.
	Announcement *string `json:"announcement,omitempty" jsonschema:"description=Message shown before installing"`
	// Type is an optional package type tag.
	Type *string `json:"type,omitempty"`
	// Channels maps a channel name to versions ordered oldest to newest.
	Channels map[string][]string `json:"channels" jsonschema:"required"`
	// Repo maps a version to its downloadable artifacts.
	Repo map[string]RepoEntry `json:"repo,omitempty"`
}

// RepoEntry lists the artifacts published for one version.
type RepoEntry struct {
	// Archive is the application archive URL.
	Archive *string `json:"archive,omitempty" jsonschema:"format=uri"`
	// Metadata is the optional metadata URL.
	Metadata *string `json:"metadata,omitempty" jsonschema:"format=uri"`
}

// Getter downloads a whole resource.
type Getter interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// URL returns the manifest location for a repository host.
func URL(repoHost string) string {
	return "https://" + repoHost + packagePath
}

// Fetch downloads and parses the manifest from repoHost.
func Fetch(ctx context.Context, client Getter, repoHost string) (*Manifest, error) {
	url := URL(repoHost)

	body, err := client.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", url, ErrManifestFetch, err)
	}

	m, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}

	return m, nil
}

// Parse decodes a manifest document.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestParse, err)
	}

	if m.Channels == nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestParse, errMissingChannels)
	}

	return &m, nil
}

// ResolveVersion returns the latest version of a channel: its last element.
func ResolveVersion(m *Manifest, channel string) (string, error) {
	versions, ok := m.Channels[channel]
	if !ok {
		return "", fmt.Errorf("%q: %w", channel, ErrUnknownChannel)
	}

	if len(versions) == 0 {
		return "", fmt.Errorf("%q: %w", channel, ErrEmptyChannel)
	}

	return versions[len(versions)-1], nil
}

// ResolveArchiveURL returns the archive URL published for version.
func ResolveArchiveURL(m *Manifest, version string) (string, error) {
	entry, ok := m.Repo[version]
	if !ok {
		return "", fmt.Errorf("%q: %w", version, ErrUnknownVersion)
	}

	if entry.Archive == nil || *entry.Archive == "" {
		return "", fmt.Errorf("%q: %w", version, ErrMissingArchive)
	}

	return *entry.Archive, nil
}

// AnnouncementText returns the announcement or an empty string.
func (m *Manifest) AnnouncementText() string {
	if m.Announcement == nil {
		return ""
	}

	return *m.Announcement
}
