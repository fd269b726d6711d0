// Package manifest fetches the application's channel manifest
// (package.json in the Maven-style repository) and resolves a channel to a
// version and a version to its archive URL.
//
// Channel lists are ordered oldest to newest, so the latest release of a
// channel is its last element. CheckOrdering cross-checks that assumption
// against semantic-version order for diagnostics.
package manifest
