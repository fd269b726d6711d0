// Package version exposes build metadata of the installer.
//
// Version, Commit and BuildTime are injected with -ldflags; local builds
// fall back to the VCS stamp Go embeds in the binary.
package version
