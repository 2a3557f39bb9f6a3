package testsupport

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// photoEpoch is the modification time of the first file MakePhotoDir writes.
var photoEpoch = time.Date(2018, 9, 10, 8, 0, 0, 0, time.UTC)

// WriteFile creates path with size bytes of filler, creating parents as
// needed. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{'x'}, max(size, 1)), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// MakePhotoDir creates dir under root holding the named files, one minute
// apart in argument order, and returns its path.
func MakePhotoDir(t testing.TB, root, dir string, files ...string) string {
	t.Helper()
	path := filepath.Join(root, dir)
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	for i, name := range files {
		target := filepath.Join(path, name)
		WriteFile(t, target, 16)
		mtime := photoEpoch.Add(time.Duration(i) * time.Minute)
		if err := os.Chtimes(target, mtime, mtime); err != nil {
			t.Fatalf("chtimes %s: %v", target, err)
		}
	}
	return path
}
