package deps

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStub(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	present := writeStub(t, t.TempDir(), "present", "exit 0")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(context.Background(), reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Path != present {
		t.Fatalf("expected first requirement to resolve, got %#v", results[0])
	}
	if results[0].Detail != "" || results[0].Version != "" {
		t.Fatalf("unexpected detail for available dependency: %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Summary() != `binary "clearly-not-present-binary" not found` {
		t.Fatalf("unexpected summary: %q", results[1].Summary())
	}
}

func TestCheckBinariesUnconfigured(t *testing.T) {
	results := CheckBinaries(context.Background(), []Requirement{{Name: "ExifTool", Command: "  ", Optional: true}})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Available || results[0].Detail != "command not configured" {
		t.Fatalf("unexpected status: %#v", results[0])
	}
	if !results[0].Optional {
		t.Fatal("expected optional flag to carry through")
	}
}

func TestExifToolVersionProbe(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, binDir, "exiftool", `[ "$1" = "-ver" ] && echo 12.76`)
	t.Setenv("PATH", binDir)

	status := CheckBinaries(context.Background(), []Requirement{ExifTool("exiftool")})[0]
	if !status.Available {
		t.Fatalf("expected PATH lookup to succeed, got %q", status.Detail)
	}
	if status.Version != "12.76" {
		t.Fatalf("expected version 12.76, got %q", status.Version)
	}
	if !strings.HasSuffix(status.Summary(), "(version 12.76)") {
		t.Fatalf("unexpected summary: %q", status.Summary())
	}
}

func TestFailingProbeStillAvailable(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, binDir, "exiftool", "exit 3")
	t.Setenv("PATH", binDir)

	status := CheckBinaries(context.Background(), []Requirement{ExifTool("exiftool")})[0]
	if !status.Available || status.Version != "" {
		t.Fatalf("unexpected status: %#v", status)
	}
}
