package launcher

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	goupdate "github.com/doitdistributed/go-update"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
	"github.com/ilisfairy/mcl-installer/internal/platform"

	// Register SHA512 for the update checksum.
	_ "crypto/sha512"
)

// Style selects the script dialect.
type Style int

// Script dialects.
const (
	StyleUnix Style = iota
	StyleWindows
)

const (
	// ScriptMode is applied to the patched script so it stays executable.
	ScriptMode os.FileMode = 0o755

	checksumFunction = crypto.SHA512
)

var (
	// ErrPatchTargetNotFound is returned when the script has no default runtime reference.
	ErrPatchTargetNotFound = fmt.Errorf("%w: runtime reference not found in launch script", install.ErrFilesystem)

	errHashUnavailable = errors.New("hash function unavailable")
)

// StyleFor picks the dialect of the script shipped for a platform.
func StyleFor(tag platform.Tag) Style {
	if tag.IsWindows() {
		return StyleWindows
	}

	return StyleUnix
}

// String implements fmt.Stringer.
func (s Style) String() string {
	if s == StyleWindows {
		return "windows"
	}

	return "unix"
}

func (s Style) statement() string {
	if s == StyleWindows {
		return "set JAVA_BINARY="
	}

	return "export JAVA_BINARY="
}

// Target is the literal line fragment the shipped script uses for the default runtime.
func (s Style) Target() string {
	return s.statement() + "java"
}

// Replacement returns the line fragment pointing at runtimePath.
func (s Style) Replacement(runtimePath string) string {
	return s.statement() + `"` + runtimePath + `"`
}

// Patch replaces every default runtime reference in content.
func Patch(content []byte, runtimePath string, style Style) ([]byte, error) {
	target := []byte(style.Target())
	if !bytes.Contains(content, target) {
		return nil, fmt.Errorf("%q: %w", style.Target(), ErrPatchTargetNotFound)
	}

	return bytes.ReplaceAll(content, target, []byte(style.Replacement(runtimePath))), nil
}

// PatchRuntimeReference rewrites scriptPath in place to use the runtime
// executable at runtimePath (made absolute). The result is written
// atomically and left executable.
func PatchRuntimeReference(scriptPath, runtimePath string, style Style) error {
	absRuntime, err := filepath.Abs(runtimePath)
	if err != nil {
		return fmt.Errorf("resolve %s: %w: %w", runtimePath, install.ErrFilesystem, err)
	}

	content, err := os.ReadFile(filepath.Clean(scriptPath))
	if err != nil {
		return fmt.Errorf("read %s: %w: %w", scriptPath, install.ErrFilesystem, err)
	}

	patched, err := Patch(content, absRuntime, style)
	if err != nil {
		return fmt.Errorf("patch %s: %w", scriptPath, err)
	}

	checksum, err := checksumOf(patched)
	if err != nil {
		return err
	}

	options := goupdate.Options{
		TargetPath: scriptPath,
		TargetMode: ScriptMode,
		Checksum:   checksum,
		Hash:       checksumFunction,
	}

	if err = goupdate.Apply(bytes.NewReader(patched), options); err != nil {
		return fmt.Errorf("write %s: %w: %w", scriptPath, install.ErrFilesystem, err)
	}

	oldPath := filepath.Join(filepath.Dir(scriptPath), "."+filepath.Base(scriptPath)+".old")
	if _, err = os.Stat(oldPath); err == nil {
		_ = os.Remove(oldPath)
	}

	// The umask may have stripped the executable bits from TargetMode.
	if err = os.Chmod(scriptPath, ScriptMode); err != nil {
		return fmt.Errorf("chmod %s: %w: %w", scriptPath, install.ErrFilesystem, err)
	}

	return nil
}

func checksumOf(data []byte) ([]byte, error) {
	if !checksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	hasher := checksumFunction.New()
	_, _ = hasher.Write(data)

	return hasher.Sum(nil), nil
}
