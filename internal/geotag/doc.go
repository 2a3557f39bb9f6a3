// Package geotag runs the per-directory pipeline that turns photo GPS tags
// into an aggregated location tree.
//
// For each directory the Tagger fingerprints the listing and, when the
// persisted record carries the same fingerprint, returns the stored tree
// without extracting or geocoding anything. Otherwise it extracts metadata,
// reverse geocodes every photo with coordinates, aggregates the resolved
// records, and writes the result back to the store.
//
// Per-photo failures (missing coordinates, geocoder errors) drop that photo
// only. Store connectivity failures switch the Tagger to store-less operation
// for the remainder of the batch.
package geotag
