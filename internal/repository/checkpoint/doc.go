// Package checkpoint persists in-flight download tasks so an interrupted
// transfer can resume from its last completed chunk.
package checkpoint
