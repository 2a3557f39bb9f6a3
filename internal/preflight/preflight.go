package preflight

import (
	"context"

	"geotag/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// RunAll executes the local preflight checks for the given config.
// The photo library must be readable, and writable when renames are applied.
// Network checks are left to CheckGeocoder so a run can start offline when
// everything it needs is already cached.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Photo library", cfg.Paths.PhotosDir, !cfg.Rename.DryRun))
	results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir, true))

	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, Result{Name: status.Name, Passed: status.Available, Detail: status.Summary()})
	}

	return results
}
