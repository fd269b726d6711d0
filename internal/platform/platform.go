// Package platform maps the host OS and CPU architecture onto the tokens
// used by the runtime mirror and the application's launch scripts.
package platform

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// Operating system tokens.
const (
	Windows = "windows"
	Linux   = "linux"
	Mac     = "mac"
)

// Architecture tokens.
const (
	X32     = "x32"
	X64     = "x64"
	ARM     = "arm"
	AArch64 = "aarch64"
)

// Archive extensions published by the runtime mirror.
const (
	ExtZip   = "zip"
	ExtTarGz = "tar.gz"
)

// ErrUnknownArch is returned for architecture tokens outside the supported set.
var ErrUnknownArch = errors.New("unknown architecture")

// Tag is the resolved platform of the running process.
type Tag struct {
	OS   string // windows, linux, mac
	Arch string // x32, x64, arm, aarch64
}

// osTokens maps GOOS values onto mirror OS tokens.
var osTokens = map[string]string{
	"windows": Windows,
	"linux":   Linux,
	"android": Linux,
	"darwin":  Mac,
}

// archTokens maps GOARCH values onto mirror architecture tokens.
var archTokens = map[string]string{
	"386":   X32,
	"amd64": X64,
	"arm":   ARM,
	"arm64": AArch64,
}

// Resolve returns the tag of the platform this binary was built for.
func Resolve() Tag {
	return resolve(runtime.GOOS, runtime.GOARCH)
}

// resolve looks both values up in the tables. Unknown values fall back to
// linux/x64, the mirror's broadest target; builds for other targets are not
// shipped.
func resolve(goos, goarch string) Tag {
	tag := Tag{OS: Linux, Arch: X64}

	if os, ok := osTokens[goos]; ok {
		tag.OS = os
	}

	if arch, ok := archTokens[goarch]; ok {
		tag.Arch = arch
	}

	return tag
}

// ParseArch validates a user supplied architecture token.
func ParseArch(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, arch := range archTokens {
		if arch == s {
			return s, nil
		}
	}

	return "", fmt.Errorf("%q: %w", s, ErrUnknownArch)
}

// WithArch returns a copy of the tag targeting another architecture.
func (t Tag) WithArch(arch string) Tag {
	t.Arch = arch
	return t
}

// String renders the tag as os-arch.
func (t Tag) String() string {
	return t.OS + "-" + t.Arch
}

// IsWindows reports whether the tag targets Windows.
func (t Tag) IsWindows() bool {
	return t.OS == Windows
}

// ArchiveExt returns the runtime archive format published for this OS.
func (t Tag) ArchiveExt() string {
	if t.IsWindows() {
		return ExtZip
	}

	return ExtTarGz
}

// ScriptName returns the application's launch script for this OS.
func (t Tag) ScriptName() string {
	if t.IsWindows() {
		return "mcl.cmd"
	}

	return "mcl"
}

// JavaBinary returns the java executable inside a runtime install root.
func (t Tag) JavaBinary(root string) string {
	switch t.OS {
	case Windows:
		return filepath.Join(root, "bin", "java.exe")
	case Mac:
		return filepath.Join(root, "Contents", "Home", "bin", "java")
	default:
		return filepath.Join(root, "bin", "java")
	}
}
