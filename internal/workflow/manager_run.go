package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"geotag/internal/discovery"
	"geotag/internal/geocode"
	"geotag/internal/geotag"
	"geotag/internal/locate"
	"geotag/internal/logging"
	"geotag/internal/memo"
	"geotag/internal/metadata"
	"geotag/internal/rename"
	"geotag/internal/services"
	"geotag/internal/store"
)

// ErrAlreadyRunning is returned when another process holds the run lock.
var ErrAlreadyRunning = errors.New("another geotag run is in progress")

// Run processes every discovered directory, or the one selected with
// WithDirectory. Only fatal errors are returned; the summary is returned
// alongside them with whatever was completed.
func (m *Manager) Run(ctx context.Context) (summary *Summary, err error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, m.logger)

	summary = &Summary{RunID: runID, Started: time.Now(), DryRun: m.dryRun}
	defer func() { summary.Finished = time.Now() }()

	if err := m.cfg.EnsureDirectories(); err != nil {
		return summary, services.Wrap(services.ErrFatal, "workflow", "ensure directories", "", err)
	}
	lock := flock.New(m.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return summary, services.Wrap(services.ErrFatal, "workflow", "acquire run lock", m.cfg.LockPath(), err)
	}
	if !locked {
		return summary, services.Wrap(services.ErrFatal, "workflow", "acquire run lock", m.cfg.LockPath(), ErrAlreadyRunning)
	}
	defer func() { _ = lock.Unlock() }()

	if err := m.runPreflightChecks(ctx, logger); err != nil {
		return summary, err
	}

	cache, persist, err := m.loadCache(logger)
	if err != nil {
		return summary, err
	}
	defer func() {
		if cache != nil {
			summary.Cache = cache.Stats()
		}
		if perr := persist(); perr != nil && err == nil {
			err = perr
		}
	}()

	st, closeStore := m.openStore(ctx, logger)
	defer closeStore()
	summary.StoreActive = st != nil

	tagger, err := m.newTagger(cache, st, logger)
	if err != nil {
		return summary, err
	}

	dirs, err := m.directories()
	if err != nil {
		return summary, err
	}
	logger.Info("run started",
		logging.Int("directories", len(dirs)),
		logging.Bool("dry_run", m.dryRun),
		logging.Bool("store", summary.StoreActive),
		logging.Int("cache_entries", cacheLen(cache)),
		logging.String(logging.FieldEventType, "run_started"),
	)

	strategy := rename.Strategy{MinCount: m.cfg.Rename.MinPlaceCount}
	renamer := rename.NewRenamer(m.dryRun, m.logger)
	bar := newProgressBar(m.progress, len(dirs))

	for _, dir := range dirs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return summary, ctxErr
		}
		outcome, err := m.processDirectory(ctx, logger, tagger, strategy, renamer, dir)
		if err != nil {
			return summary, err
		}
		summary.Directories = append(summary.Directories, outcome)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	m.logSummary(logger, summary, cache)
	return summary, nil
}

func (m *Manager) processDirectory(ctx context.Context, logger *slog.Logger, tagger *geotag.Tagger, strategy rename.Strategy, renamer *rename.Renamer, dir string) (DirectoryOutcome, error) {
	outcome := DirectoryOutcome{Directory: dir}
	dirLogger := logger.With(logging.Directory(dir))

	result, err := tagger.TagDirectory(services.WithStage(ctx, "tag"), dir)
	if err != nil {
		if !m.handleDirectoryFailure(dirLogger, "tag", err) {
			return outcome, err
		}
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome, nil
	}
	outcome.Cached = result.Cached

	target, ok := strategy.Name(result.Tree, result.OriginalName)
	if !ok {
		outcome.Status = StatusUndetermined
		return outcome, nil
	}
	outcome.Target = target

	renamed, err := renamer.Rename(dir, target)
	if err != nil {
		if !m.handleDirectoryFailure(dirLogger, "rename", err) {
			return outcome, err
		}
		outcome.Status = StatusFailed
		outcome.Err = err
		return outcome, nil
	}
	outcome.Applied = renamed.Applied
	if renamed.Unchanged {
		outcome.Status = StatusUnchanged
	} else {
		outcome.Status = StatusRenamed
	}
	return outcome, nil
}

// loadCache returns the memo cache and a function persisting it. Both are
// inert when caching is disabled. A corrupt cache file is fatal.
func (m *Manager) loadCache(logger *slog.Logger) (*memo.Cache, func() error, error) {
	if !m.cfg.Cache.Enabled {
		return nil, func() error { return nil }, nil
	}
	disk := memo.NewDiskStore(m.cfg.Cache.File, m.logger)
	image, err := disk.Load()
	if err != nil {
		logger.Error("cache file unreadable",
			logging.Error(err),
			logging.String("path", disk.Path()),
			logging.String(logging.FieldEventType, "cache_corrupt"),
			logging.String(logging.FieldErrorHint, "fix or remove the file, or run geotag cache clear"),
		)
		return nil, nil, err
	}
	loaded := image.Clone()
	cache := memo.New(image, m.cfg.Cache.MaxEntries, m.logger)
	persist := func() error {
		snapshot := cache.Snapshot()
		if snapshot.Equal(loaded) {
			return nil
		}
		if err := disk.Persist(snapshot); err != nil {
			return services.Wrap(services.ErrFatal, "workflow", "persist cache", disk.Path(), err)
		}
		return nil
	}
	return cache, persist, nil
}

// openStore returns the location store, or nil when it is disabled or
// unreachable. Unreachable stores degrade the run instead of aborting it.
func (m *Manager) openStore(ctx context.Context, logger *slog.Logger) (*store.Store, func()) {
	noop := func() {}
	if m.skipStore || !m.cfg.Store.Enabled {
		logger.Info("store disabled, skipping staleness checks and storage",
			logging.Bool("skip_store", m.skipStore))
		return nil, noop
	}
	st, err := store.OpenFromConfig(m.cfg)
	if err == nil {
		if err = st.Ping(ctx); err != nil {
			_ = st.Close()
		}
	}
	if err != nil {
		logging.WarnWithContext(logger, "store unavailable, continuing without it", "store_unavailable",
			logging.Error(err),
			logging.String("path", m.cfg.Store.Path),
			logging.String(logging.FieldErrorHint, "check the store path and permissions"),
			logging.String(logging.FieldImpact, "every directory is recomputed and nothing is stored"),
		)
		return nil, noop
	}
	return st, func() { _ = st.Close() }
}

func (m *Manager) newTagger(cache *memo.Cache, st *store.Store, logger *slog.Logger) (*geotag.Tagger, error) {
	extractor := m.extractor
	if extractor == nil {
		var err error
		extractor, err = metadata.NewFromConfig(m.cfg.Metadata, m.logger)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "workflow", "metadata extractor", "", err)
		}
	}
	geocoder := m.geocoder
	if geocoder == nil {
		client, err := geocode.NewFromConfig(m.cfg.Geocoder, m.logger)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "workflow", "geocoder", "", err)
		}
		geocoder = client
	}

	opts := geotag.Options{
		Extractor:           extractor,
		Geocoder:            geocoder,
		Cache:               cache,
		CountryPolicy:       locate.CountryPolicy(m.cfg.Aggregation.CountryPolicy),
		CoordinatePrecision: m.cfg.Geocoder.CoordinatePrecision,
		Logger:              logger,
	}
	if st != nil {
		opts.Store = st
	}
	tagger, err := geotag.New(opts)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "build tagger", "", err)
	}
	return tagger, nil
}

// directories returns the single selected directory or every discovered one.
func (m *Manager) directories() ([]string, error) {
	if m.directory == "" {
		return discovery.Directories(discovery.FromConfig(m.cfg))
	}
	dir, err := filepath.Abs(m.directory)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "resolve directory", m.directory, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "workflow", "stat directory", dir, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrFatal, "workflow", "stat directory", fmt.Sprintf("%s is not a directory", dir), nil)
	}
	return []string{dir}, nil
}

func (m *Manager) logSummary(logger *slog.Logger, summary *Summary, cache *memo.Cache) {
	attrs := []logging.Attr{
		logging.Int("directories", len(summary.Directories)),
		logging.Int("renamed", summary.Count(StatusRenamed)),
		logging.Int("unchanged", summary.Count(StatusUnchanged)),
		logging.Int("undetermined", summary.Count(StatusUndetermined)),
		logging.Int("failed", summary.Count(StatusFailed)),
		logging.Int("from_store", summary.CachedCount()),
		logging.Bool("dry_run", summary.DryRun),
		logging.String(logging.FieldEventType, "run_completed"),
	}
	if cache != nil {
		stats := cache.Stats()
		attrs = append(attrs,
			logging.Int64("cache_hits", int64(stats.Hits)),
			logging.Int64("cache_misses", int64(stats.Misses)),
			logging.Int64("cache_evictions", int64(stats.Evictions)),
			logging.Int("cache_entries", stats.Entries),
		)
	}
	logger.Info("run completed", logging.Args(attrs...)...)
}

func cacheLen(cache *memo.Cache) int {
	if cache == nil {
		return 0
	}
	return cache.Len()
}
