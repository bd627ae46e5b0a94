// Package install prepares the platform install root and copies validated
// bundles into it.
//
// Prepare is a deliberate two-phase remove-then-create so a run never mixes
// bundles from a previous run with the current one. The manager only accepts
// roots resolved by internal/platform and rejects obviously dangerous targets
// before any deletion happens.
package install
