//go:build unix

package installer

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

// checkWritable fails early when downloads could not be stored in dir.
func checkWritable(dir string) error {
	if err := unix.Access(dir, unix.W_OK); err != nil {
		return fmt.Errorf("%s is not writable: %w: %w", dir, install.ErrFilesystem, err)
	}

	return nil
}
