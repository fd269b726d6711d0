// Package progress renders transfer and extraction progress on the console.
//
// Work runs on a worker goroutine and publishes Updates over a channel; a
// renderer goroutine draws them as a single self-overwriting line.
package progress
