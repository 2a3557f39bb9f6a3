package rename

import (
	"strings"

	"geotag/internal/locate"
	"geotag/internal/textutil"
)

// DefaultMinCount is the place frequency threshold used when none is set.
const DefaultMinCount = 3

// Strategy computes target directory names.
type Strategy struct {
	MinCount int
}

// Name returns the new directory name for tree. A nil tree yields false: the
// directory must not be renamed.
func (s Strategy) Name(tree *locate.Tree, originalName string) (string, bool) {
	if tree == nil {
		return "", false
	}
	minCount := s.MinCount
	if minCount <= 0 {
		minCount = DefaultMinCount
	}

	areas := make([]string, 0, len(tree.Areas))
	for _, area := range tree.Areas {
		name := textutil.SanitizeFragment(area.Name)
		if name == "" {
			continue
		}
		var places []string
		for _, place := range area.Places {
			if place.Count < minCount {
				continue
			}
			if p := textutil.SanitizeFragment(place.Name); p != "" {
				places = append(places, p)
			}
		}
		if len(places) > 0 {
			name += " (" + strings.Join(places, ", ") + ")"
		}
		areas = append(areas, name)
	}

	var b strings.Builder
	b.WriteString(originalName)
	if country := textutil.SanitizeFragment(tree.Country); country != "" {
		b.WriteString(" ")
		b.WriteString(country)
		if len(areas) > 0 {
			b.WriteString(" -")
		}
	}
	if len(areas) > 0 {
		b.WriteString(" ")
		b.WriteString(strings.Join(areas, ", "))
	}
	return b.String(), true
}
