package store

import (
	"time"

	"geotag/internal/locate"
	"geotag/internal/metadata"
)

// Record is the authoritative result for one directory.
type Record struct {
	ID int64
	// Date is the directory's date-stamped original name and the record key.
	Date string
	// Directory is the directory basename when the record was written.
	Directory string
	Path      string
	Checksum  string
	Metadata  []metadata.Record
	URLs      []string
	// Locations is nil when no photo resolved to a country.
	Locations *locate.Tree
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary is a lightweight listing row.
type Summary struct {
	Date       string
	Directory  string
	Checksum   string
	Country    string
	AreaCount  int
	PhotoCount int
	UpdatedAt  time.Time
}
