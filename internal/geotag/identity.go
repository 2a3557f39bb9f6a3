package geotag

import (
	"path/filepath"
	"regexp"
)

var datePrefix = regexp.MustCompile(`^(\d{4}_\d{2}_\d{2}).*$`)

// OriginalName strips anything a previous rename appended after the
// yyyy_mm_dd date stamp in the directory basename. Names without a date stamp
// are returned unchanged. The result identifies the directory in the store.
func OriginalName(dir string) string {
	base := filepath.Base(dir)
	return datePrefix.ReplaceAllString(base, "$1")
}
