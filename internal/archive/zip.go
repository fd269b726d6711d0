package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

// ErrEntryNotFound is returned when a named zip entry is absent.
var ErrEntryNotFound = errors.New("zip entry not found")

// ZipRootName returns the root name of a zip archive: its first entry.
func ZipRootName(archivePath string) (string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %w", archivePath, ErrExtraction, err)
	}

	defer func() {
		_ = reader.Close()
	}()

	if len(reader.File) == 0 {
		return "", fmt.Errorf("%s: %w: %w", archivePath, ErrExtraction, errEmptyRoot)
	}

	return RootName(reader.File[0].Name), nil
}

// ReadZipEntry returns the contents of one entry, e.g. META-INF/MANIFEST.MF of a jar.
func ReadZipEntry(archivePath, name string) ([]byte, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", archivePath, ErrExtraction, err)
	}

	defer func() {
		_ = reader.Close()
	}()

	entry, err := reader.Open(name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s in %s: %w", name, archivePath, ErrEntryNotFound)
		}

		return nil, fmt.Errorf("open %s in %s: %w: %w", name, archivePath, ErrExtraction, err)
	}

	defer func() {
		_ = entry.Close()
	}()

	data, err := io.ReadAll(entry)
	if err != nil {
		return nil, fmt.Errorf("read %s in %s: %w: %w", name, archivePath, ErrExtraction, err)
	}

	return data, nil
}

func extractZip(ctx context.Context, archivePath, destDir string, report ProgressFunc) (string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %w", archivePath, ErrExtraction, err)
	}

	defer func() {
		_ = reader.Close()
	}()

	if len(reader.File) == 0 {
		return "", fmt.Errorf("%s: %w: %w", archivePath, ErrExtraction, errEmptyRoot)
	}

	root := RootName(reader.File[0].Name)
	total := len(reader.File)

	report(0)

	for i, entry := range reader.File {
		if err = ctx.Err(); err != nil {
			return "", err
		}

		if err = extractZipEntry(entry, destDir); err != nil {
			return "", err
		}

		report(float64(i+1) * 100 / float64(total))
	}

	return root, nil
}

func extractZipEntry(entry *zip.File, destDir string) error {
	target, err := safeJoin(destDir, entry.Name)
	if err != nil {
		return err
	}

	if entry.FileInfo().IsDir() || strings.HasSuffix(entry.Name, "/") {
		if err = os.MkdirAll(target, dirPermissions); err != nil {
			return fmt.Errorf("create %s: %w: %w", target, install.ErrFilesystem, err)
		}

		return nil
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w: %w", entry.Name, ErrExtraction, err)
	}

	defer func() {
		_ = src.Close()
	}()

	return writeFile(target, src, entry.Mode())
}
