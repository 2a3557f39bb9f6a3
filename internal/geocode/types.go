package geocode

import (
	"math"
	"strconv"
	"strings"
)

// Coordinates is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Round returns the coordinates rounded to precision decimal places. A negative
// precision returns them unchanged.
func (c Coordinates) Round(precision int) Coordinates {
	if precision < 0 {
		return c
	}
	scale := math.Pow10(precision)
	return Coordinates{
		Lat: math.Round(c.Lat*scale) / scale,
		Lon: math.Round(c.Lon*scale) / scale,
	}
}

// Valid reports whether both values lie within WGS84 bounds.
func (c Coordinates) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180 &&
		!math.IsNaN(c.Lat) && !math.IsNaN(c.Lon)
}

func (c Coordinates) String() string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lon, 'f', -1, 64)
}

// Response models the subset of a Nominatim reverse lookup used for naming.
type Response struct {
	PlaceID     int64             `json:"place_id,omitempty"`
	Name        string            `json:"name,omitempty"`
	DisplayName string            `json:"display_name,omitempty"`
	Address     map[string]string `json:"address,omitempty"`
	// Error is set by Nominatim when no feature exists at the coordinates.
	Error string `json:"error,omitempty"`
	// URL is the request URL that produced this response.
	URL string `json:"url,omitempty"`
}

// Attribute returns a trimmed address attribute, or "" when absent.
func (r *Response) Attribute(key string) string {
	if r == nil || r.Address == nil {
		return ""
	}
	return strings.TrimSpace(r.Address[key])
}
