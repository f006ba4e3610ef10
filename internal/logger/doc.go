// Package logger wraps zap for the packager:
//   - a global sugared console logger writing to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level parsing so the CLI and config can pick verbosity,
//   - shorthand functions (Info, InfoKV, WarnKV, ...).
//
// Every step of the pipeline receives a context and logs through it, so the
// step name travels with each record.
package logger
