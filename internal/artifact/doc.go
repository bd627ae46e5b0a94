// Package artifact validates bundle output before installation. Bundles are
// directory trees, so the check is existence plus directory-ness, performed
// strictly after the unit's build step; artifacts are never pre-validated or
// cached across runs.
package artifact
