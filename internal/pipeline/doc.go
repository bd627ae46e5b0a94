// Package pipeline sequences the deploy stages over all discovered units:
// build, artifact validation, install. Units are processed one at a time in
// discovery order; a per-unit failure becomes a skip record with a reason and
// the run carries on. Whole-run aborts (platform resolution, install-root
// preparation) happen before the driver ever runs.
package pipeline
