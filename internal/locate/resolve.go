package locate

import (
	"errors"
	"log/slog"

	"geotag/internal/geocode"
	"geotag/internal/logging"
	"geotag/internal/textutil"
)

// Record is the location derived from one photo. Empty strings mean absent.
type Record struct {
	Country string `json:"country,omitempty"`
	Area    string `json:"area,omitempty"`
	Place   string `json:"place,omitempty"`
}

// HasCountry reports whether the record may contribute to aggregation.
func (r Record) HasCountry() bool { return r.Country != "" }

// attrName is the top-level feature name rather than an address attribute.
const attrName = "name"

// passes lists Area candidates followed by Place candidates, in priority order.
var passes = [][]string{
	{"city", attrName, "neighbourhood"},
	{"town", attrName},
	{"state", "state_district", attrName, "county"},
	{"county", attrName, "village"},
}

// Resolve maps a geocoder response to a Record. A nil response, or one
// carrying a Nominatim error, yields an empty record.
func Resolve(resp *geocode.Response, logger *slog.Logger) Record {
	if resp == nil || resp.Error != "" {
		return Record{}
	}
	r := resolver{resp: resp, logger: logger}

	record := Record{Country: r.value("country")}
	for _, pass := range passes {
		area := r.value(pass[0])
		if area == "" {
			continue
		}
		record.Area = area
		for _, candidate := range pass[1:] {
			if place := r.value(candidate); place != "" {
				record.Place = place
				break
			}
		}
		break
	}
	return record
}

type resolver struct {
	resp   *geocode.Response
	logger *slog.Logger
}

func (r resolver) value(attr string) string {
	raw := r.resp.Attribute(attr)
	if attr == attrName {
		if name := r.resp.Name; name != "" {
			raw = name
		}
	}
	if raw == "" {
		return ""
	}
	normalized, err := textutil.NormalizeLabel(raw)
	if err != nil && errors.Is(err, textutil.ErrNotTransliterable) {
		logging.WarnWithContext(r.logger, "location value not transliterable", "transliteration_failed",
			logging.String("attribute", attr),
			logging.String("value", raw),
			logging.String(logging.FieldErrorHint, "value kept with non-ascii characters"),
			logging.String(logging.FieldImpact, "directory name may contain non-ascii characters"))
	}
	return normalized
}
