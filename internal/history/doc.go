// Package history records deploy run outcomes in a local SQLite database.
//
// Recording is best-effort from the caller's point of view: a history write
// failure is logged and never fails a deploy. RunResults are otherwise
// discarded at process exit, so this store is the only place past runs can be
// inspected from.
package history
