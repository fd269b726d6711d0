package install

// InstallUnit describes a downloaded archive waiting to be unpacked.
// The archive is removed once extraction and the final rename succeed.
type InstallUnit struct {
	// ArchivePath is the downloaded archive file.
	ArchivePath string
	// ExtractionRoot is the directory the archive is unpacked into.
	ExtractionRoot string
	// FinalDir is the canonical directory name the extracted root is renamed to.
	FinalDir string
	// RootName overrides root detection when the archive's top-level directory
	// is known up front. Empty means "inspect the archive".
	RootName string
}
