// Package logger wraps zap for the installer:
//   - a global sugared logger writing a compact console format to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing for the settings file,
//   - leveled key-value helpers (DebugKV, InfoKV, WarnKV, ErrorKV).
//
// Stdout is left to the interactive dialogue and progress bars.
package logger
