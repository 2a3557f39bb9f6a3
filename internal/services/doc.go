// Package services defines shared utilities consumed by the geotag pipeline
// and its external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, directory paths, and stage names for
//     logging.
//   - Structured error markers plus the Wrap helper that keep per-photo
//     failures, degraded-store conditions, and process-fatal errors apart.
//
// Use these helpers when wiring new pipeline code so operational behaviour
// (error handling, observability) stays uniform.
package services
