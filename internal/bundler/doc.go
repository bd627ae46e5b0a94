// Package bundler runs the external per-unit bundle command.
//
// The command is treated as fully opaque: deckhand passes the unit name and
// the release profile flag, waits for the process to exit, and maps a
// non-zero status to a recoverable build failure. The bundler's stdout and
// stderr are captured for diagnostics but never parsed, and the produced
// artifact is never inspected here; that is the validator's job.
package bundler
