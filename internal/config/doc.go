// Package config loads, normalizes, and validates geotag configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GEOTAG_PHOTOS_DIR. The Config type centralizes every knob the CLI needs so
// the photo library, state directory, cache, store, and geocoder endpoint are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
