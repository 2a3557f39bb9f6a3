package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	PhotosDir string `toml:"photos_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Discovery controls which directories under the photo library are processed.
type Discovery struct {
	// StartYear is "all" or a four digit year; only year folders at or after it are scanned.
	StartYear string   `toml:"start_year"`
	Exclude   []string `toml:"exclude"`
}

// Cache contains configuration for the memoizing result cache.
type Cache struct {
	Enabled    bool   `toml:"enabled"`
	File       string `toml:"file"`
	MaxEntries int    `toml:"max_entries"`
}

// Geocoder contains configuration for the reverse geocoding endpoint.
type Geocoder struct {
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	Language          string  `toml:"language"`
	Zoom              int     `toml:"zoom"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxRetries        int     `toml:"max_retries"`
	// CoordinatePrecision is the number of decimal places coordinates are rounded
	// to before they key the cache. Negative values keep coordinates exact.
	CoordinatePrecision int `toml:"coordinate_precision"`
}

// Metadata selects the photo metadata extractor.
type Metadata struct {
	Extractor      string `toml:"extractor"`
	ExifToolBinary string `toml:"exiftool_binary"`
}

// Store contains configuration for the persistent location store.
type Store struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Rename contains configuration for directory renaming.
type Rename struct {
	MinPlaceCount int  `toml:"min_place_count"`
	DryRun        bool `toml:"dry_run"`
}

// Aggregation contains configuration for location aggregation.
type Aggregation struct {
	CountryPolicy string `toml:"country_policy"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for geotag.
//
// Configuration sections by subsystem:
//   - Paths: photo library, state and log directories
//   - Discovery: year filtering and excluded folder names
//   - Cache: memoized metadata and geocoder responses
//   - Geocoder: reverse geocoding endpoint, pacing and retries
//   - Metadata: exiftool or native EXIF extraction
//   - Store: SQLite record of processed directories
//   - Rename: naming threshold and dry-run switch
//   - Aggregation: country reconciliation policy
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Discovery   Discovery   `toml:"discovery"`
	Cache       Cache       `toml:"cache"`
	Geocoder    Geocoder    `toml:"geocoder"`
	Metadata    Metadata    `toml:"metadata"`
	Store       Store       `toml:"store"`
	Rename      Rename      `toml:"rename"`
	Aggregation Aggregation `toml:"aggregation"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("geotag.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LockPath returns the path of the single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "geotag.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "geotag")
	}
	return "~/.local/state/geotag"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}
