// Package metadata extracts per-photo tag records from a directory.
//
// Two extractors are available: ExifTool shells out to exiftool in batch JSON
// mode, and Native decodes EXIF blocks in-process. Both produce records keyed
// by exiftool-style group:tag names so downstream code only looks for
// Composite:GPSLatitude and Composite:GPSLongitude.
package metadata
