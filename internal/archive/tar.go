package archive

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

// countingReader tracks how many compressed bytes were consumed.
type countingReader struct {
	r    io.Reader
	read int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.read += int64(n)

	return n, err
}

// extractTarGz unpacks a gzip-compressed tarball. Progress is measured in
// compressed bytes consumed since the entry count is unknown up front.
func extractTarGz(ctx context.Context, archivePath, destDir string, report ProgressFunc) (string, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("open %s: %w: %w", archivePath, install.ErrFilesystem, err)
	}

	defer func() {
		_ = file.Close()
	}()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w: %w", archivePath, install.ErrFilesystem, err)
	}

	counter := &countingReader{r: file}

	gz, err := gzip.NewReader(counter)
	if err != nil {
		return "", fmt.Errorf("gzip %s: %w: %w", archivePath, ErrExtraction, err)
	}

	defer func() {
		_ = gz.Close()
	}()

	tr := tar.NewReader(gz)

	var root string

	report(0)

	for {
		if err = ctx.Err(); err != nil {
			return "", err
		}

		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("read %s: %w: %w", archivePath, ErrExtraction, err)
		}

		if root == "" {
			root = RootName(header.Name)
		}

		if err = extractTarEntry(tr, header, destDir); err != nil {
			return "", err
		}

		if info.Size() > 0 {
			report(min(float64(counter.read)*100/float64(info.Size()), 100))
		}
	}

	if root == "" {
		return "", fmt.Errorf("%s: %w: %w", archivePath, ErrExtraction, errEmptyRoot)
	}

	report(100)

	return root, nil
}

func extractTarEntry(tr *tar.Reader, header *tar.Header, destDir string) error {
	target, err := safeJoin(destDir, header.Name)
	if err != nil {
		return err
	}

	if err = checkLinkedParents(destDir, header.Name, target); err != nil {
		return err
	}

	switch header.Typeflag {
	case tar.TypeDir:
		if err = os.MkdirAll(target, dirPermissions); err != nil {
			return fmt.Errorf("create %s: %w: %w", target, install.ErrFilesystem, err)
		}
	case tar.TypeReg:
		// A later entry replaces an earlier link instead of writing through it.
		if info, statErr := os.Lstat(target); statErr == nil && info.Mode()&fs.ModeSymlink != 0 {
			if err = os.Remove(target); err != nil {
				return fmt.Errorf("remove %s: %w: %w", target, install.ErrFilesystem, err)
			}
		}

		return writeFile(target, tr, os.FileMode(header.Mode))
	case tar.TypeSymlink:
		// The link target is resolved relative to the link's directory.
		if filepath.IsAbs(header.Linkname) {
			return fmt.Errorf("%q: %w: %w", header.Name, ErrExtraction, errIllegalPath)
		}

		if _, err = safeJoin(destDir, filepath.Join(filepath.Dir(header.Name), header.Linkname)); err != nil {
			return err
		}

		if err = os.MkdirAll(filepath.Dir(target), dirPermissions); err != nil {
			return fmt.Errorf("create %s: %w: %w", filepath.Dir(target), install.ErrFilesystem, err)
		}

		if err = os.Symlink(header.Linkname, target); err != nil {
			return fmt.Errorf("symlink %s: %w: %w", target, install.ErrFilesystem, err)
		}
	case tar.TypeLink:
		source, err := safeJoin(destDir, header.Linkname)
		if err != nil {
			return err
		}

		if err = checkLinkedParents(destDir, header.Linkname, source); err != nil {
			return err
		}

		if err = os.Link(source, target); err != nil {
			return fmt.Errorf("link %s: %w: %w", target, install.ErrFilesystem, err)
		}
	case tar.TypeXGlobalHeader, tar.TypeXHeader:
		// Metadata only.
	default:
		return fmt.Errorf("unsupported tar entry %q (type %c): %w", header.Name, header.Typeflag, ErrExtraction)
	}

	return nil
}

// checkLinkedParents rejects an entry when any directory between destDir and
// target is a symlink already on disk. Lexical checks alone cannot see a chain
// of links that each stay inside destDir but resolve outside of it together.
func checkLinkedParents(destDir, entryName, target string) error {
	root := filepath.Clean(destDir)

	rel, err := filepath.Rel(root, filepath.Dir(target))
	if err != nil {
		return fmt.Errorf("%q: %w: %w", entryName, ErrExtraction, err)
	}

	if rel == "." {
		return nil
	}

	current := root

	for _, part := range strings.Split(rel, string(os.PathSeparator)) {
		current = filepath.Join(current, part)

		info, err := os.Lstat(current)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		if err != nil {
			return fmt.Errorf("stat %s: %w: %w", current, install.ErrFilesystem, err)
		}

		if info.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("%q: %w: %w", entryName, ErrExtraction, errIllegalPath)
		}
	}

	return nil
}
