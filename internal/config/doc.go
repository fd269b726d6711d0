// Package config loads the optional installer settings file.
//
// The file lives next to the installation and may override the MCL
// repository host, the Adoptium mirror host and the log level. A missing
// file yields defaults.
package config
