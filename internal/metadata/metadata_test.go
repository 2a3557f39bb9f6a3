package metadata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"geotag/internal/services"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exiftool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestExifToolExtractAlignsRecordsWithInput(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "IMG_0001.JPG")
	second := filepath.Join(dir, "IMG_0002.JPG")
	argsFile := filepath.Join(dir, "args.txt")

	// exiftool omits files it cannot read; output order is not guaranteed.
	payload := fmt.Sprintf(`[{"SourceFile":%q,"Composite:GPSLatitude":-4.3123,"Composite:GPSLongitude":55.7}]`, second)
	script := writeScript(t, fmt.Sprintf("echo \"$@\" > %s\ncat <<'JSON'\n%s\nJSON\nexit 1\n", argsFile, payload))

	extractor := NewExifTool(WithBinary(script))
	records, err := extractor.Extract(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].SourceFile() != first {
		t.Fatalf("first record source = %q", records[0].SourceFile())
	}
	if _, ok := records[0].Coordinates(); ok {
		t.Fatal("missing file should have no coordinates")
	}
	coords, ok := records[1].Coordinates()
	if !ok || coords.Lat != -4.3123 || coords.Lon != 55.7 {
		t.Fatalf("coordinates = %+v, %v", coords, ok)
	}

	args, err := os.ReadFile(argsFile)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	if !strings.Contains(string(args), "-json -n -G") {
		t.Fatalf("unexpected args %q", args)
	}
}

func TestExifToolExtractFailsWithoutOutput(t *testing.T) {
	script := writeScript(t, "echo 'boom' >&2\nexit 2\n")
	_, err := NewExifTool(WithBinary(script)).Extract(context.Background(), []string{"/tmp/a.jpg"})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestExifToolExtractEmptyInput(t *testing.T) {
	records, err := NewExifTool(WithBinary("/nonexistent/exiftool")).Extract(context.Background(), nil)
	if err != nil || len(records) != 0 {
		t.Fatalf("Extract(nil) = %v, %v", records, err)
	}
}

func TestRecordCoordinates(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		ok   bool
	}{
		{name: "floats", rec: Record{TagLatitude: 1.5, TagLongitude: -2.25}, ok: true},
		{name: "strings", rec: Record{TagLatitude: "1.5", TagLongitude: " -2.25 "}, ok: true},
		{name: "json numbers", rec: Record{TagLatitude: json.Number("1.5"), TagLongitude: json.Number("-2.25")}, ok: true},
		{name: "missing longitude", rec: Record{TagLatitude: 1.5}},
		{name: "garbage", rec: Record{TagLatitude: "north", TagLongitude: 2.0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coords, ok := tt.rec.Coordinates()
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && (coords.Lat != 1.5 || coords.Lon != -2.25) {
				t.Fatalf("coords = %+v", coords)
			}
		})
	}
}

func TestNativeExtractToleratesNonImages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := NewNative(nil).Extract(context.Background(), []string{path})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(records) != 1 || records[0].SourceFile() != path {
		t.Fatalf("unexpected records %+v", records)
	}
	if _, ok := records[0].Coordinates(); ok {
		t.Fatal("expected no coordinates")
	}
}

func TestListFilesSkipsHiddenAndDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.jpg", "a.jpg", ".DS_Store"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "@eaDir"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files, err := ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	want := []string{filepath.Join(dir, "a.jpg"), filepath.Join(dir, "b.jpg")}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Fatalf("files = %v, want %v", files, want)
	}
}
