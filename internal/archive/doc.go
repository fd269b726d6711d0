// Package archive unpacks downloaded zip and tar.gz archives, moves the
// extracted root to its canonical install directory and removes the archive.
//
// The format is detected from the file signature, not the name, since
// downloads are stored under neutral names such as java.arc.
package archive
