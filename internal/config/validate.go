package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDiscovery(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateGeocoder(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	if err := c.validateAggregation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.PhotosDir == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("paths.photos_dir is required. Set GEOTAG_PHOTOS_DIR or edit %s (create with 'geotag config init')", defaultPath)
	}
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	if c.Discovery.StartYear == "all" {
		return nil
	}
	year, err := strconv.Atoi(c.Discovery.StartYear)
	if err != nil || year < 1000 || year > 9999 {
		return fmt.Errorf("discovery.start_year must be \"all\" or a four digit year, got %q", c.Discovery.StartYear)
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.MaxEntries < 0 {
		return errors.New("cache.max_entries must be >= 0")
	}
	if c.Cache.Enabled && c.Cache.File == "" {
		return errors.New("cache.file must be set when cache.enabled is true")
	}
	return nil
}

func (c *Config) validateGeocoder() error {
	parsed, err := url.Parse(c.Geocoder.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("geocoder.base_url must be an absolute URL, got %q", c.Geocoder.BaseURL)
	}
	if c.Geocoder.RequestsPerSecond < 0 {
		return errors.New("geocoder.requests_per_second must be >= 0 (0 disables pacing)")
	}
	if c.Geocoder.Zoom < 0 || c.Geocoder.Zoom > 18 {
		return errors.New("geocoder.zoom must be between 0 and 18")
	}
	if c.Geocoder.CoordinatePrecision > 12 {
		return errors.New("geocoder.coordinate_precision must be <= 12")
	}
	return nil
}

func (c *Config) validateMetadata() error {
	switch c.Metadata.Extractor {
	case ExtractorExifTool, ExtractorNative:
		return nil
	default:
		return fmt.Errorf("metadata.extractor must be %q or %q, got %q", ExtractorExifTool, ExtractorNative, c.Metadata.Extractor)
	}
}

func (c *Config) validateAggregation() error {
	switch c.Aggregation.CountryPolicy {
	case CountryPolicyFirst, CountryPolicyMajority:
		return nil
	default:
		return fmt.Errorf("aggregation.country_policy must be %q or %q, got %q", CountryPolicyFirst, CountryPolicyMajority, c.Aggregation.CountryPolicy)
	}
}
