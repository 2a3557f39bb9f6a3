package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"geotag/internal/config"
	"geotag/internal/locate"
	"geotag/internal/metadata"
	"geotag/internal/services"
)

var (
	// ErrDuplicate is returned by Insert when a record with the same date exists.
	ErrDuplicate = errors.New("directory record already exists")
	// ErrCorruptRecord marks a stored record whose JSON columns cannot be decoded.
	ErrCorruptRecord = errors.New("corrupt directory record")
)

// Store persists directory records backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "store", "open", "create directory", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "store", "open", path, err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, services.Wrap(services.ErrStoreUnavailable, "store", "open", fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, services.Wrap(services.ErrStoreUnavailable, "store", "open", "init schema", err)
	}
	return store, nil
}

// OpenFromConfig opens the store configured in cfg.
func OpenFromConfig(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return Open(cfg.Store.Path)
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx = ensureContext(ctx)
	if err := s.db.PingContext(ctx); err != nil {
		return services.Wrap(services.ErrStoreUnavailable, "store", "ping", s.path, err)
	}
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1 FROM directories LIMIT 1").Scan(&one); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return services.Wrap(services.ErrStoreUnavailable, "store", "ping", s.path, err)
	}
	return nil
}

const recordColumns = "id, date, directory, path, directory_checksum, exiftools_metadata, openmaps_urls, locations, created_at, updated_at"

// FindOne returns the record for date, or nil when none exists.
func (s *Store) FindOne(ctx context.Context, date string) (*Record, error) {
	ctx = ensureContext(ctx)
	var rec *Record
	err := retryOnBusy(ctx, func() error {
		row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM directories WHERE date = ?`, date)
		var scanErr error
		rec, scanErr = scanRecord(row)
		return scanErr
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if errors.Is(err, ErrCorruptRecord) {
		return nil, err
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "store", "find", date, err)
	}
	return rec, nil
}

// Insert adds a new record. It returns ErrDuplicate when the date is taken.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	ctx = ensureContext(ctx)
	args, err := recordArgs(rec)
	if err != nil {
		return err
	}
	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO directories (
                date, directory, path, directory_checksum, exiftools_metadata,
                openmaps_urls, locations, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			args...)
		return execErr
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, rec.Date)
	}
	if err != nil {
		return services.Wrap(services.ErrStoreUnavailable, "store", "insert", rec.Date, err)
	}
	return nil
}

// Upsert inserts rec or overwrites the existing record with the same date.
// CreatedAt of an existing record is preserved.
func (s *Store) Upsert(ctx context.Context, rec *Record) error {
	ctx = ensureContext(ctx)
	args, err := recordArgs(rec)
	if err != nil {
		return err
	}
	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx,
			`INSERT INTO directories (
                date, directory, path, directory_checksum, exiftools_metadata,
                openmaps_urls, locations, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(date) DO UPDATE SET
                directory = excluded.directory,
                path = excluded.path,
                directory_checksum = excluded.directory_checksum,
                exiftools_metadata = excluded.exiftools_metadata,
                openmaps_urls = excluded.openmaps_urls,
                locations = excluded.locations,
                updated_at = excluded.updated_at`,
			args...)
		return execErr
	})
	if err != nil {
		return services.Wrap(services.ErrStoreUnavailable, "store", "upsert", rec.Date, err)
	}
	return nil
}

// Delete removes the record for date and reports whether one existed.
func (s *Store) Delete(ctx context.Context, date string) (bool, error) {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, execErr := s.db.ExecContext(ctx, `DELETE FROM directories WHERE date = ?`, date)
		if execErr != nil {
			return execErr
		}
		affected, execErr = res.RowsAffected()
		return execErr
	})
	if err != nil {
		return false, services.Wrap(services.ErrStoreUnavailable, "store", "delete", date, err)
	}
	return affected > 0, nil
}

// List returns summaries of all records ordered by date.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM directories ORDER BY date`)
	if err != nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "store", "list", "", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStoreUnavailable, "store", "list", "scan", err)
		}
		summary := Summary{
			Date:       rec.Date,
			Directory:  rec.Directory,
			Checksum:   rec.Checksum,
			PhotoCount: len(rec.Metadata),
			UpdatedAt:  rec.UpdatedAt,
		}
		if rec.Locations != nil {
			summary.Country = rec.Locations.Country
			summary.AreaCount = len(rec.Locations.Areas)
		}
		out = append(out, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStoreUnavailable, "store", "list", "iterate", err)
	}
	return out, nil
}

func recordArgs(rec *Record) ([]any, error) {
	if rec == nil {
		return nil, errors.New("record is nil")
	}
	if rec.Date == "" {
		return nil, errors.New("record date required")
	}
	meta := rec.Metadata
	if meta == nil {
		meta = []metadata.Record{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	urls := rec.URLs
	if urls == nil {
		urls = []string{}
	}
	urlsJSON, err := json.Marshal(urls)
	if err != nil {
		return nil, fmt.Errorf("marshal urls: %w", err)
	}
	var locations any
	if rec.Locations != nil {
		raw, err := json.Marshal(rec.Locations)
		if err != nil {
			return nil, fmt.Errorf("marshal locations: %w", err)
		}
		locations = string(raw)
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	return []any{
		rec.Date,
		rec.Directory,
		nullableString(rec.Path),
		rec.Checksum,
		string(metaJSON),
		string(urlsJSON),
		locations,
		rec.CreatedAt.Format(time.RFC3339Nano),
		rec.UpdatedAt.Format(time.RFC3339Nano),
	}, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		rec        Record
		path       sql.NullString
		metaRaw    sql.NullString
		urlsRaw    sql.NullString
		locRaw     sql.NullString
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(
		&rec.ID,
		&rec.Date,
		&rec.Directory,
		&path,
		&rec.Checksum,
		&metaRaw,
		&urlsRaw,
		&locRaw,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}
	rec.Path = path.String
	rec.CreatedAt = parseTime(createdRaw)
	rec.UpdatedAt = parseTime(updatedRaw)

	if metaRaw.Valid && metaRaw.String != "" {
		if err := json.Unmarshal([]byte(metaRaw.String), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("%w: decode metadata for %s: %w", ErrCorruptRecord, rec.Date, err)
		}
	}
	if urlsRaw.Valid && urlsRaw.String != "" {
		if err := json.Unmarshal([]byte(urlsRaw.String), &rec.URLs); err != nil {
			return nil, fmt.Errorf("%w: decode urls for %s: %w", ErrCorruptRecord, rec.Date, err)
		}
	}
	if locRaw.Valid && locRaw.String != "" {
		var tree locate.Tree
		if err := json.Unmarshal([]byte(locRaw.String), &tree); err != nil {
			return nil, fmt.Errorf("%w: decode locations for %s: %w", ErrCorruptRecord, rec.Date, err)
		}
		rec.Locations = &tree
	}
	return &rec, nil
}
