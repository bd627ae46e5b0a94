// Package platform maps the host operating system to the plugin install root
// used by audio host applications.
//
// The mapping is a closed table: darwin, linux, and windows. Anything else is
// an unsupported platform and aborts the run before any build work starts, so
// no partial state is created on hosts deckhand does not know.
package platform
