// Package services defines shared utilities consumed by the pipeline stages
// and the external tool integrations beneath them.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and batch job names
//     for logging.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is, and Hint to turn a marker into a next step.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
