package metadata

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"geotag/internal/geocode"
)

// Well-known tag names.
const (
	TagSourceFile       = "SourceFile"
	TagLatitude         = "Composite:GPSLatitude"
	TagLongitude        = "Composite:GPSLongitude"
	TagDateTimeOriginal = "EXIF:DateTimeOriginal"
)

// Record maps tag names to values for a single file.
type Record map[string]any

// SourceFile returns the file the record describes.
func (r Record) SourceFile() string {
	if s, ok := r[TagSourceFile].(string); ok {
		return s
	}
	return ""
}

// Coordinates returns the GPS position when both latitude and longitude are
// present and numeric.
func (r Record) Coordinates() (geocode.Coordinates, bool) {
	lat, okLat := number(r[TagLatitude])
	lon, okLon := number(r[TagLongitude])
	if !okLat || !okLon {
		return geocode.Coordinates{}, false
	}
	return geocode.Coordinates{Lat: lat, Lon: lon}, true
}

func number(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
