// Package fingerprint computes cheap staleness tokens for photo directories.
//
// A fingerprint digests the names of a directory's visible entries ordered
// oldest-modified first (ties broken by name). File contents are never read,
// so the digest changes when entries are added, removed, renamed, or touched
// into a different order, and stays stable otherwise.
package fingerprint

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Digest is a fixed-length hexadecimal fingerprint.
type Digest string

type entry struct {
	name    string
	modTime time.Time
}

// Directory returns the fingerprint of path.
func Directory(ctx context.Context, path string) (Digest, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return "", fmt.Errorf("read directory %s: %w", path, err)
	}
	listing := make([]entry, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		// Hidden files such as .DS_Store are rewritten by file browsers.
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		listing = append(listing, entry{name: e.Name(), modTime: info.ModTime()})
	}
	return digestListing(listing), nil
}

// digestListing hashes entry names in modification order.
func digestListing(entries []entry) Digest {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].modTime.Equal(entries[j].modTime) {
			return entries[i].modTime.Before(entries[j].modTime)
		}
		return entries[i].name < entries[j].name
	})
	h := xxhash.New()
	for _, e := range entries {
		_, _ = h.WriteString(e.name)
		_, _ = h.WriteString("\n")
	}
	return Digest(fmt.Sprintf("%016x", h.Sum64()))
}

// Valid reports whether s looks like a digest produced by this package.
func Valid(s string) bool {
	if len(s) != 16 {
		return false
	}
	_, err := strconv.ParseUint(s, 16, 64)
	return err == nil
}
