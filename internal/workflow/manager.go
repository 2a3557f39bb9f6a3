package workflow

import (
	"io"
	"log/slog"

	"geotag/internal/config"
	"geotag/internal/geocode"
	"geotag/internal/logging"
	"geotag/internal/metadata"
)

// Manager coordinates one geotag run over the photo library.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger

	skipStore bool
	directory string
	dryRun    bool
	progress  io.Writer

	extractor metadata.Extractor
	geocoder  geocode.Reverser
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithSkipStore disables staleness checks and storage for the run.
func WithSkipStore(skip bool) ManagerOption {
	return func(m *Manager) { m.skipStore = skip }
}

// WithDirectory restricts the run to a single event directory.
func WithDirectory(dir string) ManagerOption {
	return func(m *Manager) { m.directory = dir }
}

// WithDryRun overrides the configured dry-run switch.
func WithDryRun(dryRun bool) ManagerOption {
	return func(m *Manager) { m.dryRun = dryRun }
}

// WithProgress renders a progress bar to w. A nil writer disables it.
func WithProgress(w io.Writer) ManagerOption {
	return func(m *Manager) { m.progress = w }
}

// WithExtractor replaces the configured metadata extractor.
func WithExtractor(extractor metadata.Extractor) ManagerOption {
	return func(m *Manager) { m.extractor = extractor }
}

// WithGeocoder replaces the configured reverse geocoder.
func WithGeocoder(geocoder geocode.Reverser) ManagerOption {
	return func(m *Manager) { m.geocoder = geocoder }
}

// NewManager constructs a run manager.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "workflow"),
		dryRun: cfg.Rename.DryRun,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
