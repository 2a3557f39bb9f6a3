package config

const (
	defaultConfigPath          = "~/.config/geotag/config.toml"
	defaultLogDir              = "~/.local/state/geotag/logs"
	defaultStartYear           = "all"
	defaultCacheMaxEntries     = 1024
	defaultCacheFileName       = "cache.yml"
	defaultStoreFileName       = "geotag.db"
	defaultGeocoderBaseURL     = "https://nominatim.openstreetmap.org/reverse"
	defaultGeocoderUserAgent   = "geotag/dev (+https://github.com/geotag)"
	defaultGeocoderZoom        = 18
	defaultGeocoderTimeout     = 10
	defaultGeocoderRate        = 1.0
	defaultGeocoderMaxRetries  = 2
	defaultCoordinatePrecision = 6
	defaultExtractor           = ExtractorExifTool
	defaultExifToolBinary      = "exiftool"
	defaultMinPlaceCount       = 3
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Metadata extractor names.
const (
	ExtractorExifTool = "exiftool"
	ExtractorNative   = "native"
)

// Country reconciliation policies.
const (
	CountryPolicyFirst    = "first"
	CountryPolicyMajority = "majority"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
			LogDir:   defaultLogDir,
		},
		Discovery: Discovery{
			StartYear: defaultStartYear,
			Exclude:   []string{"@eaDir", ".DS_Store"},
		},
		Cache: Cache{
			Enabled:    true,
			MaxEntries: defaultCacheMaxEntries,
		},
		Geocoder: Geocoder{
			BaseURL:             defaultGeocoderBaseURL,
			UserAgent:           defaultGeocoderUserAgent,
			Zoom:                defaultGeocoderZoom,
			TimeoutSeconds:      defaultGeocoderTimeout,
			RequestsPerSecond:   defaultGeocoderRate,
			MaxRetries:          defaultGeocoderMaxRetries,
			CoordinatePrecision: defaultCoordinatePrecision,
		},
		Metadata: Metadata{
			Extractor:      defaultExtractor,
			ExifToolBinary: defaultExifToolBinary,
		},
		Store: Store{
			Enabled: true,
		},
		Rename: Rename{
			MinPlaceCount: defaultMinPlaceCount,
			DryRun:        true,
		},
		Aggregation: Aggregation{
			CountryPolicy: CountryPolicyFirst,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
