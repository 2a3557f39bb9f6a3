// Package store persists one record per processed photo directory in SQLite.
//
// Records are keyed by the directory's date-stamped original name, so a
// directory keeps its record after it has been renamed. Each record holds the
// fingerprint used for staleness checks, the extracted photo metadata, the
// geocoder URLs consulted, and the aggregated location tree (NULL when the
// location could not be determined).
package store
