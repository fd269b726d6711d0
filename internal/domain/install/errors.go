package install

import "errors"

// Error categories. Stage-specific errors wrap exactly one of these so callers
// can branch on the category with errors.Is without knowing every stage.
var (
	// ErrNetwork covers connection, timeout and HTTP status failures.
	ErrNetwork = errors.New("network error")
	// ErrManifest covers malformed or incomplete remote descriptors.
	ErrManifest = errors.New("manifest error")
	// ErrArchive covers corrupt or unsupported archives and destination collisions.
	ErrArchive = errors.New("archive error")
	// ErrFilesystem covers permission problems and missing paths.
	ErrFilesystem = errors.New("filesystem error")
)
