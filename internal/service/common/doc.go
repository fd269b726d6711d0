// Package common contains helpers shared by the installer stages.
//
// It provides a small HTTP client wrapper that pins the request timeout and
// the browser User-Agent every mirror request must carry, and reuses one
// connection pool across the manifest, listing and transfer stages.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
