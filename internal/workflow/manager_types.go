package workflow

import (
	"time"

	"geotag/internal/memo"
)

// Status is the outcome of processing one directory.
type Status string

const (
	// StatusRenamed means the directory was renamed, or would be in dry-run mode.
	StatusRenamed Status = "renamed"
	// StatusUnchanged means the directory already carries its target name.
	StatusUnchanged Status = "unchanged"
	// StatusUndetermined means no photo resolved to a country.
	StatusUndetermined Status = "undetermined"
	// StatusFailed means a skippable error dropped the directory.
	StatusFailed Status = "failed"
)

// DirectoryOutcome records what happened to one directory.
type DirectoryOutcome struct {
	Directory string
	Target    string
	Status    Status
	Cached    bool
	Applied   bool
	Err       error
}

// Summary describes a completed run.
type Summary struct {
	RunID       string
	Started     time.Time
	Finished    time.Time
	DryRun      bool
	StoreActive bool
	Directories []DirectoryOutcome
	Cache       memo.Stats
}

// Count returns how many directories ended with status.
func (s *Summary) Count(status Status) int {
	n := 0
	for _, d := range s.Directories {
		if d.Status == status {
			n++
		}
	}
	return n
}

// CachedCount returns how many directories were served from the store.
func (s *Summary) CachedCount() int {
	n := 0
	for _, d := range s.Directories {
		if d.Cached {
			n++
		}
	}
	return n
}
