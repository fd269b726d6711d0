// Package transfer downloads a remote resource into a local file with a
// sequence of fixed-size HTTP range requests.
//
// The size is probed once with HEAD. Each chunk is appended to the file and
// counted by the number of bytes actually received, so the file length always
// equals the transferred count and a task can resume from any chunk boundary.
// Chunks are fetched one at a time; there is no parallel range assembly.
package transfer
