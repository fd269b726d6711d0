package adoptium

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

// PatternRevision identifies the upstream naming convention the parsers in
// this file understand:
//
//	OpenJDK{major}U-{jre|jdk}_{arch}_{os}_hotspot_{version with + as _}.{zip|tar.gz}
//
// extracted into jdk-{version}[-jre].
const PatternRevision = 1

const (
	// implementation is the JVM flavour the installer ships.
	implementation = "hotspot"
	// titleMarker ends the href attribute in the mirror's listing markup.
	titleMarker = `" title="`
	// versionMarker precedes the release version in an archive name.
	versionMarker = implementation + "_"
)

// Archive extensions searched in the listing.
var archiveExts = []string{".zip", ".tar.gz"}

var (
	// ErrNoMatchingArchive is returned when no listing line names a suitable archive.
	ErrNoMatchingArchive = fmt.Errorf("%w: no matching runtime archive", install.ErrManifest)
	// ErrUnrecognizedArchiveName is returned when an archive name does not follow the convention.
	ErrUnrecognizedArchiveName = fmt.Errorf("%w: unrecognized runtime archive name", install.ErrArchive)
)

// PackPrefix returns the archive name prefix for a major version and kind.
func PackPrefix(major int, kind string) string {
	return fmt.Sprintf("OpenJDK%dU-%s", major, kind)
}

// FindArchive scans a directory listing and returns the first archive file
// name built from the pack prefix, the hotspot marker and a known extension.
// The name spans from the prefix up to the title attribute marker.
func FindArchive(listing string, major int, kind string) (string, error) {
	prefix := PackPrefix(major, kind)

	scanner := bufio.NewScanner(strings.NewReader(listing))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, prefix) || !strings.Contains(line, implementation) || !hasArchiveExt(line) {
			continue
		}

		start := strings.Index(line, prefix)

		end := strings.Index(line[start:], titleMarker)
		if end < 0 {
			continue
		}

		name := line[start : start+end]
		if !isArchiveName(name) {
			// Checksum and signature siblings share the prefix.
			continue
		}

		return name, nil
	}

	return "", fmt.Errorf("%s + %s + %v: %w", prefix, implementation, archiveExts, ErrNoMatchingArchive)
}

// RootDirName derives the top-level directory a tar.gz runtime archive
// extracts to, e.g. OpenJDK17U-jre_x64_linux_hotspot_17.0.9_9.tar.gz
// becomes jdk-17.0.9+9-jre.
func RootDirName(archiveName, kind string) (string, error) {
	start := strings.Index(archiveName, versionMarker)
	end := strings.LastIndex(archiveName, ".tar.gz")

	if start < 0 || end < 0 || start+len(versionMarker) >= end {
		return "", fmt.Errorf("%q: %w", archiveName, ErrUnrecognizedArchiveName)
	}

	version := strings.ReplaceAll(archiveName[start+len(versionMarker):end], "_", "+")

	name := "jdk-" + version
	if kind == KindJRE {
		name += "-jre"
	}

	return name, nil
}

func hasArchiveExt(s string) bool {
	for _, ext := range archiveExts {
		if strings.Contains(s, ext) {
			return true
		}
	}

	return false
}

func isArchiveName(name string) bool {
	for _, ext := range archiveExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}
