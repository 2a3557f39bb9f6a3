package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geotag/internal/config"
	"geotag/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir, true)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), false)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f, false)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Empty(t *testing.T) {
	result := CheckDirectoryAccess("test", "  ", false)
	if result.Passed {
		t.Fatal("expected failure for blank path")
	}
}

func TestCheckGeocoder_OK(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	result := CheckGeocoder(context.Background(), config.Geocoder{BaseURL: srv.URL, UserAgent: "geotag-test"})
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if gotUA != "geotag-test" {
		t.Fatalf("expected user agent to be sent, got %q", gotUA)
	}
}

func TestCheckGeocoder_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result := CheckGeocoder(context.Background(), config.Geocoder{BaseURL: srv.URL})
	if result.Passed {
		t.Fatal("expected failure for 503")
	}
}

func TestCheckGeocoder_MissingURL(t *testing.T) {
	result := CheckGeocoder(context.Background(), config.Geocoder{})
	if result.Passed {
		t.Fatal("expected failure for missing URL")
	}
}

func TestCheckGeocoder_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	result := CheckGeocoder(context.Background(), config.Geocoder{BaseURL: url})
	if result.Passed {
		t.Fatal("expected failure for closed server")
	}
}

func TestCheckSystemDeps_NativeNeedsNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithNativeExtractor())
	if statuses := CheckSystemDeps(context.Background(), cfg); len(statuses) != 0 {
		t.Fatalf("expected no requirements, got %#v", statuses)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := os.MkdirAll(cfg.Paths.StateDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d: %#v", len(results), results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %#v", failed)
	}
	if detail := results[2].Detail; !strings.Contains(detail, "version 12.76") {
		t.Fatalf("expected exiftool version in detail, got %q", detail)
	}
}

func TestRunAllReportsMissingExifTool(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Metadata.ExifToolBinary = "clearly-not-present-exiftool"
	if err := os.MkdirAll(cfg.Paths.StateDir, 0o755); err != nil {
		t.Fatal(err)
	}

	failed := Failed(RunAll(context.Background(), cfg))
	if len(failed) != 1 || failed[0].Name != "ExifTool" {
		t.Fatalf("expected only ExifTool to fail, got %#v", failed)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatalf("expected nil results, got %#v", results)
	}
}
