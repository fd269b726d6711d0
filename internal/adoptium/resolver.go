package adoptium

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ilisfairy/mcl-installer/internal/platform"
)

const (
	// DefaultMirror hosts the Adoptium directory tree.
	DefaultMirror = "mirrors.tuna.tsinghua.edu.cn/Adoptium"

	// KindJRE selects the runtime-only package.
	KindJRE = "jre"
	// KindJDK selects the development kit.
	KindJDK = "jdk"

	// DefaultMajor is used when the requested major version is out of range.
	DefaultMajor = 18
	// MinMajor and MaxMajor bound the accepted major versions.
	MinMajor = 11
	MaxMajor = 20
)

var errUnknownKind = errors.New("kind must be jre or jdk")

// Getter downloads a whole resource.
type Getter interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Request describes the runtime to look up.
type Request struct {
	// Mirror is the host and path prefix of the Adoptium tree.
	Mirror string
	// Major is the Java feature release, e.g. 17.
	Major int
	// Kind is jre or jdk.
	Kind string
	// Platform selects the os and arch directories.
	Platform platform.Tag
}

// NormalizeMajor clamps a requested major version to the supported range,
// falling back to DefaultMajor.
func NormalizeMajor(major int) int {
	if major < MinMajor || major > MaxMajor {
		return DefaultMajor
	}

	return major
}

// ListingURL returns the directory listing for a request.
func (r Request) ListingURL() string {
	mirror := r.Mirror
	if mirror == "" {
		mirror = DefaultMirror
	}

	return fmt.Sprintf("https://%s/%d/%s/%s/%s/",
		strings.TrimSuffix(mirror, "/"), r.Major, r.Kind, r.Platform.Arch, r.Platform.OS)
}

// Archive is a resolved runtime download.
type Archive struct {
	// Name is the archive file name.
	Name string
	// URL is the absolute download URL.
	URL string
}

// Resolve fetches the listing and returns the matching archive.
func Resolve(ctx context.Context, client Getter, req Request) (*Archive, error) {
	if req.Kind != KindJRE && req.Kind != KindJDK {
		return nil, fmt.Errorf("%q: %w", req.Kind, errUnknownKind)
	}

	listingURL := req.ListingURL()

	body, err := client.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch runtime listing %s: %w", listingURL, err)
	}

	name, err := FindArchive(string(body), req.Major, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", listingURL, err)
	}

	return &Archive{
		Name: name,
		URL:  listingURL + name,
	}, nil
}
