package metadata

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"geotag/internal/config"
)

// Extractor returns one record per input file, in input order.
type Extractor interface {
	Extract(ctx context.Context, files []string) ([]Record, error)
}

// NewFromConfig builds the extractor selected in configuration.
func NewFromConfig(cfg config.Metadata, logger *slog.Logger) (Extractor, error) {
	switch cfg.Extractor {
	case config.ExtractorExifTool, "":
		return NewExifTool(WithBinary(cfg.ExifToolBinary), WithLogger(logger)), nil
	case config.ExtractorNative:
		return NewNative(logger), nil
	default:
		return nil, fmt.Errorf("unknown metadata extractor %q", cfg.Extractor)
	}
}

// ListFiles returns the regular, non-hidden files directly inside dir, sorted
// by name.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}
	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !entry.Type().IsRegular() {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
