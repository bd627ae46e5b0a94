// Package services defines the shared error taxonomy for the deploy pipeline.
//
// Structured error markers plus the Wrap helper let every stage report
// failures the same way: fatal conditions (unsupported platform, install root
// preparation) abort the run, while per-unit conditions (build, validation,
// copy) are converted into skip records by the pipeline driver.
//
// Use these helpers when wiring new stage logic so operational behaviour stays
// uniform across the pipeline.
package services
