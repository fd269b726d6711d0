//go:build !unix

package installer

import (
	"fmt"
	"os"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

// checkWritable fails early when downloads could not be stored in dir.
func checkWritable(dir string) error {
	probe, err := os.CreateTemp(dir, ".mcl-installer-*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w: %w", dir, install.ErrFilesystem, err)
	}

	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return nil
}
