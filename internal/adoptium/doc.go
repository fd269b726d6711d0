// Package adoptium resolves the Java runtime archive for a platform by
// scanning an Adoptium mirror's HTML directory listing.
//
// The listing has no machine-readable index, so both the archive lookup and
// the extracted directory name are recovered from upstream file naming.
// Those parsers live in naming.go and carry a pattern revision; update the
// revision and the tests together when the upstream convention changes.
package adoptium
