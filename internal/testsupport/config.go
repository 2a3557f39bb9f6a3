package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"geotag/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Geocoder pacing and retries are disabled so tests never sleep.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.PhotosDir = filepath.Join(base, "photos")
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Cache.File = filepath.Join(base, "state", "cache.yml")
	cfgVal.Store.Path = filepath.Join(base, "state", "geotag.db")
	cfgVal.Geocoder.BaseURL = "http://127.0.0.1:1/reverse"
	cfgVal.Geocoder.RequestsPerSecond = 0
	cfgVal.Geocoder.MaxRetries = 0
	cfgVal.Geocoder.TimeoutSeconds = 2

	if err := os.MkdirAll(cfgVal.Paths.PhotosDir, 0o755); err != nil {
		t.Fatalf("mkdir photos dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithGeocoderURL points the geocoder at a test server.
func WithGeocoderURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Geocoder.BaseURL = url
	}
}

// WithNativeExtractor selects the in-process EXIF extractor.
func WithNativeExtractor() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metadata.Extractor = config.ExtractorNative
	}
}

// WithStubbedBinaries puts stub executables for names on PATH. Each stub
// answers -ver with 12.76 and otherwise exits 0. If names is empty, exiftool
// is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"exiftool"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\n[ \"$1\" = \"-ver\" ] && echo 12.76\nexit 0\n")
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.PhotosDir)
}
