// Package preflight provides readiness checks for the filesystem paths,
// external binaries and services that geotag depends on.
//
// These checks run in two contexts:
//   - The batch runner calls RunAll before scanning the photo library.
//     A failed check aborts the run before any directory is touched.
//   - The CLI "geotag check" command prints every result, including the
//     geocoder reachability probe, without starting a run.
//
// Checks gated by a config toggle are skipped when the feature is disabled.
package preflight
