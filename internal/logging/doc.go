// Package logging builds the slog loggers geotag components share.
//
// Console output is either a compact key=value line or JSON. When a log
// directory is configured every record is also appended to geotag.log as a
// JSON line. WithContext tags lines with the run ID, directory and stage
// carried on a context.
package logging
