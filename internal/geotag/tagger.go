package geotag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"geotag/internal/fingerprint"
	"geotag/internal/geocode"
	"geotag/internal/locate"
	"geotag/internal/logging"
	"geotag/internal/memo"
	"geotag/internal/metadata"
	"geotag/internal/services"
	"geotag/internal/store"
)

// Cache key namespaces.
const (
	namespaceMetadata = "metadata"
	namespaceGeocode  = "geocode"
)

// Store is the persistence the Tagger needs.
type Store interface {
	FindOne(ctx context.Context, date string) (*store.Record, error)
	Insert(ctx context.Context, rec *store.Record) error
	Upsert(ctx context.Context, rec *store.Record) error
}

// Options configures a Tagger.
type Options struct {
	Extractor metadata.Extractor
	Geocoder  geocode.Reverser
	// Cache memoizes metadata batches and geocoder responses. Nil disables it.
	Cache *memo.Cache
	// Store is consulted for staleness and written after each run. Nil skips both.
	Store               Store
	CountryPolicy       locate.CountryPolicy
	CoordinatePrecision int
	Logger              *slog.Logger
}

// Batch identifies one metadata extraction.
type Batch struct {
	Directory   string `json:"directory"`
	Fingerprint string `json:"fingerprint"`
}

// Result is the outcome of tagging one directory.
type Result struct {
	Directory    string
	OriginalName string
	Fingerprint  fingerprint.Digest
	// Tree is nil when no photo resolved to a country.
	Tree *locate.Tree
	// Cached is true when the tree came from the store unchanged.
	Cached         bool
	MetadataCached bool
	Photos         int
	Located        int
	Skipped        int
	GeocodeHits    int
	URLs           []string
}

// Tagger runs the geotag pipeline one directory at a time.
type Tagger struct {
	extract   func(context.Context, Batch) ([]metadata.Record, error)
	reverse   func(context.Context, geocode.Coordinates) (*geocode.Response, error)
	cache     *memo.Cache
	store     Store
	policy    locate.CountryPolicy
	precision int
	logger    *slog.Logger
}

// New builds a Tagger.
func New(opts Options) (*Tagger, error) {
	if opts.Extractor == nil {
		return nil, errors.New("metadata extractor required")
	}
	if opts.Geocoder == nil {
		return nil, errors.New("geocoder required")
	}
	t := &Tagger{
		cache:     opts.Cache,
		store:     opts.Store,
		policy:    opts.CountryPolicy,
		precision: opts.CoordinatePrecision,
		logger:    logging.NewComponentLogger(opts.Logger, "geotag"),
	}
	extractor := opts.Extractor
	t.extract = memo.Memoize(opts.Cache, namespaceMetadata, func(ctx context.Context, b Batch) ([]metadata.Record, error) {
		files, err := metadata.ListFiles(b.Directory)
		if err != nil {
			return nil, err
		}
		return extractor.Extract(ctx, files)
	})
	t.reverse = memo.Memoize(opts.Cache, namespaceGeocode, opts.Geocoder.Reverse)
	return t, nil
}

// StoreEnabled reports whether staleness checks and storage are active.
func (t *Tagger) StoreEnabled() bool { return t.store != nil }

// TagDirectory computes, or loads, the location tree for dir.
func (t *Tagger) TagDirectory(ctx context.Context, dir string) (*Result, error) {
	ctx = services.WithDirectory(ctx, dir)
	logger := t.logger.With(logging.Directory(dir))

	result := &Result{Directory: dir, OriginalName: OriginalName(dir)}
	digest, err := fingerprint.Directory(ctx, dir)
	if err != nil {
		return nil, services.Wrap(services.ErrSkippable, "geotag", "fingerprint", dir, err)
	}
	result.Fingerprint = digest

	existing := t.lookup(ctx, logger, result.OriginalName)
	if existing != nil && existing.Checksum == string(digest) {
		logger.Info("directory unchanged, using stored location",
			logging.String("fingerprint", string(digest)))
		result.Tree = existing.Locations
		result.Cached = true
		result.URLs = existing.URLs
		result.Photos = len(existing.Metadata)
		return result, nil
	}

	records, err := t.extract(ctx, Batch{Directory: dir, Fingerprint: string(digest)})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, services.Wrap(services.ErrSkippable, "geotag", "extract metadata", dir, err)
	}
	result.MetadataCached = t.cache != nil && t.cache.LastHit()
	result.Photos = len(records)
	logger.Debug("metadata extracted",
		logging.Int("photos", len(records)),
		logging.Bool("cached", result.MetadataCached))

	acc := locate.NewAccumulator(t.policy)
	seenURL := make(map[string]struct{})
	for _, rec := range records {
		coords, ok := rec.Coordinates()
		if !ok {
			result.Skipped++
			continue
		}
		resp, err := t.reverse(ctx, coords.Round(t.precision))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			result.Skipped++
			logging.WarnWithContext(logger, "geocoding failed, skipping photo", "geocode_failed",
				logging.String("file", filepath.Base(rec.SourceFile())),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check geocoder availability and rate limits"),
				logging.String(logging.FieldImpact, "photo does not contribute to the directory name"))
			continue
		}
		if t.cache != nil && t.cache.LastHit() {
			result.GeocodeHits++
		}
		if resp.URL != "" {
			if _, dup := seenURL[resp.URL]; !dup {
				seenURL[resp.URL] = struct{}{}
				result.URLs = append(result.URLs, resp.URL)
			}
		}
		if acc.Add(locate.Resolve(resp, logger)) {
			result.Located++
		} else {
			result.Skipped++
		}
	}

	result.Tree = acc.Tree()
	if result.Tree != nil {
		logger.Info("location resolved",
			logging.String("country", result.Tree.Country),
			logging.Any("areas", result.Tree.AreaNames()),
			logging.Int("samples", acc.Samples()))
	}
	if countries := acc.Countries(); len(countries) > 1 {
		logger.Info("photos span several countries",
			logging.Any("countries", countries),
			logging.String("chosen", result.Tree.Country),
			logging.String("policy", string(t.policy)))
	}
	if result.Tree == nil {
		logger.Info("location undetermined", logging.Int("photos", result.Photos))
	}

	t.save(ctx, logger, existing, records, result)
	return result, nil
}

func (t *Tagger) lookup(ctx context.Context, logger *slog.Logger, identity string) *store.Record {
	if t.store == nil {
		return nil
	}
	rec, err := t.store.FindOne(ctx, identity)
	if err == nil && rec != nil && !fingerprint.Valid(rec.Checksum) {
		err = fmt.Errorf("%w: checksum %q is not a directory fingerprint", store.ErrCorruptRecord, rec.Checksum)
	}
	if err == nil {
		return rec
	}
	if errors.Is(err, store.ErrCorruptRecord) {
		logging.WarnWithContext(logger, "stored record unreadable, recomputing", "store_record_corrupt",
			logging.Error(err),
			logging.String(logging.FieldImpact, "directory will be geocoded again"))
		return nil
	}
	t.degrade(logger, err)
	return nil
}

func (t *Tagger) save(ctx context.Context, logger *slog.Logger, existing *store.Record, records []metadata.Record, result *Result) {
	if t.store == nil {
		return
	}
	rec := &store.Record{
		Date:      result.OriginalName,
		Directory: filepath.Base(result.Directory),
		Path:      result.Directory,
		Checksum:  string(result.Fingerprint),
		Metadata:  records,
		URLs:      result.URLs,
		Locations: result.Tree,
	}
	if existing != nil {
		if err := t.store.Upsert(ctx, rec); err != nil {
			t.degrade(logger, err)
		}
		return
	}
	err := t.store.Insert(ctx, rec)
	if errors.Is(err, store.ErrDuplicate) {
		logger.Info("record inserted concurrently, overwriting",
			logging.String("date", rec.Date))
		err = t.store.Upsert(ctx, rec)
	}
	if err != nil {
		t.degrade(logger, err)
	}
}

// degrade disables the store for the rest of the batch.
func (t *Tagger) degrade(logger *slog.Logger, err error) {
	logging.WarnWithContext(logger, "store unavailable, continuing without it", "store_degraded",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check the store path and disk space"),
		logging.String(logging.FieldImpact, fmt.Sprintf("staleness checks and storage disabled for this run (%s)", services.Classify(err))))
	t.store = nil
}
