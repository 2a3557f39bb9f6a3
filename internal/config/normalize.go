package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDiscovery()
	if err := c.normalizeCache(); err != nil {
		return err
	}
	c.normalizeGeocoder()
	if err := c.normalizeMetadata(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	if c.Rename.MinPlaceCount <= 0 {
		c.Rename.MinPlaceCount = defaultMinPlaceCount
	}
	c.Aggregation.CountryPolicy = strings.ToLower(strings.TrimSpace(c.Aggregation.CountryPolicy))
	if c.Aggregation.CountryPolicy == "" {
		c.Aggregation.CountryPolicy = CountryPolicyFirst
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.PhotosDir) == "" {
		if value, ok := os.LookupEnv("GEOTAG_PHOTOS_DIR"); ok {
			c.Paths.PhotosDir = strings.TrimSpace(value)
		}
	}
	if c.Paths.PhotosDir, err = expandPath(c.Paths.PhotosDir); err != nil {
		return fmt.Errorf("paths.photos_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDiscovery() {
	c.Discovery.StartYear = strings.ToLower(strings.TrimSpace(c.Discovery.StartYear))
	if c.Discovery.StartYear == "" {
		c.Discovery.StartYear = defaultStartYear
	}
	excludes := make([]string, 0, len(c.Discovery.Exclude))
	seen := make(map[string]struct{}, len(c.Discovery.Exclude))
	for _, name := range c.Discovery.Exclude {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		excludes = append(excludes, name)
	}
	c.Discovery.Exclude = excludes
}

func (c *Config) normalizeCache() error {
	var err error
	if strings.TrimSpace(c.Cache.File) == "" {
		c.Cache.File = filepath.Join(c.Paths.StateDir, defaultCacheFileName)
	}
	if c.Cache.File, err = expandPath(c.Cache.File); err != nil {
		return fmt.Errorf("cache.file: %w", err)
	}
	return nil
}

func (c *Config) normalizeGeocoder() {
	if c.Geocoder.BaseURL == "" {
		if value, ok := os.LookupEnv("GEOTAG_GEOCODER_URL"); ok {
			c.Geocoder.BaseURL = value
		}
	}
	c.Geocoder.BaseURL = strings.TrimSpace(c.Geocoder.BaseURL)
	if c.Geocoder.BaseURL == "" {
		c.Geocoder.BaseURL = defaultGeocoderBaseURL
	}
	c.Geocoder.UserAgent = strings.TrimSpace(c.Geocoder.UserAgent)
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = defaultGeocoderUserAgent
	}
	c.Geocoder.Language = strings.TrimSpace(c.Geocoder.Language)
	if c.Geocoder.TimeoutSeconds <= 0 {
		c.Geocoder.TimeoutSeconds = defaultGeocoderTimeout
	}
	if c.Geocoder.MaxRetries < 0 {
		c.Geocoder.MaxRetries = 0
	}
}

func (c *Config) normalizeMetadata() error {
	c.Metadata.Extractor = strings.ToLower(strings.TrimSpace(c.Metadata.Extractor))
	if c.Metadata.Extractor == "" {
		c.Metadata.Extractor = defaultExtractor
	}
	c.Metadata.ExifToolBinary = strings.TrimSpace(c.Metadata.ExifToolBinary)
	if c.Metadata.ExifToolBinary == "" {
		c.Metadata.ExifToolBinary = defaultExifToolBinary
	}
	return nil
}

func (c *Config) normalizeStore() error {
	var err error
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = filepath.Join(c.Paths.StateDir, defaultStoreFileName)
	}
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
