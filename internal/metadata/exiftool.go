package metadata

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/goccy/go-json"

	"geotag/internal/logging"
	"geotag/internal/services"
)

var commandContext = exec.CommandContext

// Option configures the ExifTool extractor.
type Option func(*ExifTool)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(e *ExifTool) {
		if binary = strings.TrimSpace(binary); binary != "" {
			e.binary = binary
		}
	}
}

// WithLogger sets the extractor logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *ExifTool) { e.logger = logging.NewComponentLogger(logger, "exiftool") }
}

// ExifTool runs exiftool once per batch of files.
type ExifTool struct {
	binary string
	logger *slog.Logger
}

var _ Extractor = (*ExifTool)(nil)

// NewExifTool constructs an extractor using defaults.
func NewExifTool(opts ...Option) *ExifTool {
	e := &ExifTool{binary: "exiftool", logger: logging.NewComponentLogger(nil, "exiftool")}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Binary returns the configured executable.
func (e *ExifTool) Binary() string { return e.binary }

// Extract runs exiftool in JSON mode with numeric values and group-prefixed
// tag names. exiftool exits non-zero when some files lack metadata; output is
// still used as long as it parses.
func (e *ExifTool) Extract(ctx context.Context, files []string) ([]Record, error) {
	if len(files) == 0 {
		return []Record{}, nil
	}
	args := append([]string{"-json", "-n", "-G", "-q", "-fast", "--"}, files...)
	cmd := commandContext(ctx, e.binary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if stdout.Len() == 0 {
		detail := strings.TrimSpace(stderr.String())
		if runErr == nil {
			runErr = errors.New("no output")
		}
		return nil, services.Wrap(services.ErrExternalTool, "metadata", "exiftool", detail, runErr)
	}
	if runErr != nil {
		e.logger.Debug("exiftool reported errors",
			logging.Error(runErr),
			logging.String("stderr", strings.TrimSpace(stderr.String())))
	}

	var records []Record
	if err := json.Unmarshal(stdout.Bytes(), &records); err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "metadata", "exiftool", "decode output", err)
	}
	return orderRecords(files, records), nil
}

// orderRecords aligns exiftool output with the input list. Files exiftool
// skipped get an empty record carrying only SourceFile.
func orderRecords(files []string, records []Record) []Record {
	bySource := make(map[string]Record, len(records))
	for _, rec := range records {
		bySource[rec.SourceFile()] = rec
	}
	out := make([]Record, 0, len(files))
	for _, file := range files {
		if rec, ok := bySource[file]; ok {
			out = append(out, rec)
			continue
		}
		out = append(out, Record{TagSourceFile: file})
	}
	return out
}
