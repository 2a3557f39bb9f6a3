package memo

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"geotag/internal/logging"
	"geotag/internal/services"
)

// ErrStoreCorrupt marks a cache file that exists but cannot be read back.
var ErrStoreCorrupt = errors.New("cache store corrupt")

// StoreCorruptError reports an unreadable cache file. It matches both
// ErrStoreCorrupt and services.ErrFatal.
type StoreCorruptError struct {
	Path string
	Err  error
}

func (e *StoreCorruptError) Error() string {
	return fmt.Sprintf("cache store %s corrupt: %v", e.Path, e.Err)
}

func (e *StoreCorruptError) Unwrap() error { return e.Err }

func (e *StoreCorruptError) Is(target error) bool {
	return target == ErrStoreCorrupt || target == services.ErrFatal
}

// DiskStore loads and persists a cache Image as YAML. Access is serialized
// across processes through an advisory lock file next to the image.
type DiskStore struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// NewDiskStore returns a store backed by path.
func NewDiskStore(path string, logger *slog.Logger) *DiskStore {
	return &DiskStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logging.NewComponentLogger(logger, "memo"),
	}
}

// Path returns the image file location.
func (d *DiskStore) Path() string { return d.path }

// Load reads the persisted image. A missing file yields an empty image; any
// other failure returns a *StoreCorruptError.
func (d *DiskStore) Load() (*Image, error) {
	if err := d.ensureDir(); err != nil {
		return nil, &StoreCorruptError{Path: d.path, Err: err}
	}
	if err := d.lock.RLock(); err != nil {
		return nil, &StoreCorruptError{Path: d.path, Err: fmt.Errorf("lock cache file: %w", err)}
	}
	defer func() { _ = d.lock.Unlock() }()

	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			d.logger.Debug("cache file absent, starting empty", logging.String("path", d.path))
			return NewImage(), nil
		}
		return nil, &StoreCorruptError{Path: d.path, Err: fmt.Errorf("read cache file: %w", err)}
	}

	image := NewImage()
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, image); err != nil {
			return nil, &StoreCorruptError{Path: d.path, Err: fmt.Errorf("parse cache file: %w", err)}
		}
	}
	if image.Entries == nil {
		image.Entries = make(map[string]string)
	}
	if image.Order == nil {
		image.Order = []string{}
	}
	if err := image.Validate(); err != nil {
		return nil, &StoreCorruptError{Path: d.path, Err: err}
	}

	d.logger.Debug("loaded cache",
		logging.Int("entry_count", image.Len()),
		logging.String("path", d.path))
	return image, nil
}

// Persist writes the image atomically via a temp file and rename.
func (d *DiskStore) Persist(image *Image) error {
	if image == nil {
		image = NewImage()
	}
	data, err := yaml.Marshal(image)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := d.ensureDir(); err != nil {
		return err
	}
	if err := d.lock.Lock(); err != nil {
		return fmt.Errorf("lock cache file: %w", err)
	}
	defer func() { _ = d.lock.Unlock() }()

	tmpPath := d.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, d.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	d.logger.Debug("persisted cache",
		logging.Int("entry_count", image.Len()),
		logging.String("path", d.path))
	return nil
}

// Remove deletes the persisted image. A missing file is not an error.
func (d *DiskStore) Remove() error {
	if err := os.Remove(d.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

func (d *DiskStore) ensureDir() error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	return nil
}
