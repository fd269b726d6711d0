// Package installer runs the interactive install pipeline.
//
// A run has two sequential legs. The runtime leg resolves a Java build on an
// Adoptium mirror, downloads it with resumable range requests and installs
// it as ./java. The application leg reads the MCL package manifest,
// downloads the latest stable archive, extracts it in place and points the
// launch script at the freshly installed runtime.
package installer
