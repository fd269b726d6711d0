// Package launcher rewrites the MCL launch script so that it starts the
// runtime installed next to it instead of whatever java is on PATH.
package launcher
