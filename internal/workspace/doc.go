// Package workspace discovers plugin units from the convention-based
// workspace layout: one immediate subdirectory per unit. Discovery is a
// read-only directory listing; units carry no identity beyond a single run.
package workspace
