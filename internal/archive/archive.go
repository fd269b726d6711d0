package archive

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

// Format identifies an archive container.
type Format int

// Supported formats.
const (
	FormatUnknown Format = iota
	FormatZip
	FormatTarGz
)

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatZip:
		return "zip"
	case FormatTarGz:
		return "tar.gz"
	default:
		return "unknown"
	}
}

const (
	// dirPermissions is used for directories created during extraction.
	dirPermissions = 0o755
	// minFilePermissions keeps extracted files readable and writable by the owner.
	minFilePermissions = 0o600
)

var (
	// ErrExtraction is returned for corrupt, unsafe or unsupported archives.
	ErrExtraction = fmt.Errorf("%w: extraction failed", install.ErrArchive)
	// ErrUnsupportedFormat is returned when the signature is neither zip nor gzip.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported archive format", ErrExtraction)
	// ErrRename is returned when the canonical install directory cannot be created.
	ErrRename = fmt.Errorf("%w: cannot move extracted root into place", install.ErrArchive)

	errIllegalPath = errors.New("entry escapes extraction directory")
	errEmptyRoot   = errors.New("archive has no entries")
)

// ProgressFunc receives extraction progress in percent (0–100).
type ProgressFunc func(percent float64)

// DetectFormat sniffs the archive signature.
func DetectFormat(archivePath string) (Format, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return FormatUnknown, fmt.Errorf("open %s: %w: %w", archivePath, install.ErrFilesystem, err)
	}

	defer func() {
		_ = file.Close()
	}()

	magic, err := bufio.NewReader(file).Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return FormatUnknown, fmt.Errorf("read %s: %w: %w", archivePath, install.ErrFilesystem, err)
	}

	switch {
	case len(magic) >= 4 && magic[0] == 'P' && magic[1] == 'K' &&
		((magic[2] == 3 && magic[3] == 4) || (magic[2] == 5 && magic[3] == 6)):
		return FormatZip, nil
	case len(magic) >= 2 && magic[0] == 0x1f && magic[1] == 0x8b:
		return FormatTarGz, nil
	default:
		return FormatUnknown, nil
	}
}

// Extract unpacks archivePath into destDir and returns the name of the
// archive's root entry.
func Extract(ctx context.Context, archivePath, destDir string, progress ProgressFunc) (string, error) {
	format, err := DetectFormat(archivePath)
	if err != nil {
		return "", err
	}

	if err = os.MkdirAll(destDir, dirPermissions); err != nil {
		return "", fmt.Errorf("create %s: %w: %w", destDir, install.ErrFilesystem, err)
	}

	report := func(percent float64) {
		if progress != nil {
			progress(percent)
		}
	}

	switch format {
	case FormatZip:
		return extractZip(ctx, archivePath, destDir, report)
	case FormatTarGz:
		return extractTarGz(ctx, archivePath, destDir, report)
	default:
		return "", fmt.Errorf("%s: %w", archivePath, ErrUnsupportedFormat)
	}
}

// InstallFrom extracts unit.ArchivePath into unit.ExtractionRoot, renames the
// extracted root to unit.FinalDir and deletes the archive. FinalDir must not
// exist; callers remove a previous installation first.
func InstallFrom(ctx context.Context, unit install.InstallUnit, progress ProgressFunc) (string, error) {
	finalPath := filepath.Join(unit.ExtractionRoot, unit.FinalDir)

	if _, err := os.Lstat(finalPath); err == nil {
		return "", fmt.Errorf("%s already exists: %w", finalPath, ErrRename)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w: %w", finalPath, install.ErrFilesystem, err)
	}

	root, err := Extract(ctx, unit.ArchivePath, unit.ExtractionRoot, progress)
	if err != nil {
		return "", err
	}

	if unit.RootName != "" {
		root = unit.RootName
	}

	rootPath := filepath.Join(unit.ExtractionRoot, root)

	info, err := os.Stat(rootPath)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("extracted root %s is not a directory: %w", rootPath, ErrExtraction)
	}

	if err = os.Rename(rootPath, finalPath); err != nil {
		return "", fmt.Errorf("rename %s to %s: %w: %w", rootPath, finalPath, ErrRename, err)
	}

	if err = os.Remove(unit.ArchivePath); err != nil {
		return "", fmt.Errorf("remove %s: %w: %w", unit.ArchivePath, install.ErrFilesystem, err)
	}

	return finalPath, nil
}

// ExtractInPlace unpacks an archive into dir and deletes it. Used for
// archives without a single root directory.
func ExtractInPlace(ctx context.Context, archivePath, dir string, progress ProgressFunc) error {
	if _, err := Extract(ctx, archivePath, dir, progress); err != nil {
		return err
	}

	if err := os.Remove(archivePath); err != nil {
		return fmt.Errorf("remove %s: %w: %w", archivePath, install.ErrFilesystem, err)
	}

	return nil
}

// RootName returns the top-level component of an archive entry name,
// e.g. "mcl-1.2/" and "mcl-1.2/bin/mcl" both yield "mcl-1.2".
func RootName(entryName string) string {
	name := strings.TrimPrefix(path.Clean(strings.ReplaceAll(entryName, `\`, "/")), "./")
	name = strings.TrimPrefix(name, "/")

	if i := strings.Index(name, "/"); i >= 0 {
		name = name[:i]
	}

	if name == "." {
		return ""
	}

	return name
}

// safeJoin resolves an entry name below root and rejects escapes.
func safeJoin(root, entryName string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(strings.ReplaceAll(entryName, `\`, "/")))

	cleanRoot := filepath.Clean(root)
	if target != cleanRoot && !strings.HasPrefix(target, cleanRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf("%q: %w: %w", entryName, ErrExtraction, errIllegalPath)
	}

	return target, nil
}

// writeFile copies r into target with the given mode.
func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), dirPermissions); err != nil {
		return fmt.Errorf("create %s: %w: %w", filepath.Dir(target), install.ErrFilesystem, err)
	}

	file, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm()|minFilePermissions)
	if err != nil {
		return fmt.Errorf("create %s: %w: %w", target, install.ErrFilesystem, err)
	}

	if _, err = io.Copy(file, r); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w: %w", target, ErrExtraction, err)
	}

	if err = file.Close(); err != nil {
		return fmt.Errorf("close %s: %w: %w", target, install.ErrFilesystem, err)
	}

	return nil
}
