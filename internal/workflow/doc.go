// Package workflow runs geotag over the photo library.
//
// The Manager owns the lifecycle of one batch: it takes the single-instance
// lock, runs preflight checks, loads the durable memo cache, opens the
// location store (degrading to store-less operation when it is unreachable),
// discovers event directories and then tags and renames them one at a time.
// The cache image is persisted on every exit path so partial progress
// survives a fatal error or cancellation.
//
// Per-directory failures are classified with services.Classify: skippable
// failures are counted and logged, fatal ones end the run.
package workflow
