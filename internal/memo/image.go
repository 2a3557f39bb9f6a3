package memo

import (
	"fmt"
	"slices"
	"strings"
)

// Image is the complete cache state: encoded results keyed by call signature
// plus the insertion order used for eviction (oldest first).
type Image struct {
	Entries map[string]string `yaml:"entries"`
	Order   []string          `yaml:"order"`
}

// NewImage returns an empty image.
func NewImage() *Image {
	return &Image{Entries: make(map[string]string), Order: []string{}}
}

// Len returns the number of cached results.
func (img *Image) Len() int {
	if img == nil {
		return 0
	}
	return len(img.Entries)
}

// Clone returns a deep copy of the image.
func (img *Image) Clone() *Image {
	out := NewImage()
	if img == nil {
		return out
	}
	for key, value := range img.Entries {
		out.Entries[key] = value
	}
	out.Order = append(out.Order, img.Order...)
	return out
}

// Equal reports whether both images hold the same entries in the same order.
func (img *Image) Equal(other *Image) bool {
	if img.Len() != other.Len() {
		return false
	}
	if img == nil || other == nil {
		return true
	}
	if !slices.Equal(img.Order, other.Order) {
		return false
	}
	for key, value := range img.Entries {
		if otherValue, ok := other.Entries[key]; !ok || otherValue != value {
			return false
		}
	}
	return true
}

// Validate checks that the mapping and the eviction order describe the same
// key set with no duplicates.
func (img *Image) Validate() error {
	if img == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(img.Order))
	for _, key := range img.Order {
		if _, dup := seen[key]; dup {
			return fmt.Errorf("key %q appears more than once in eviction order", key)
		}
		if _, ok := img.Entries[key]; !ok {
			return fmt.Errorf("key %q in eviction order has no entry", key)
		}
		seen[key] = struct{}{}
	}
	if len(seen) != len(img.Entries) {
		return fmt.Errorf("%d entries missing from eviction order", len(img.Entries)-len(seen))
	}
	return nil
}

// Namespaces counts entries per key namespace.
func (img *Image) Namespaces() map[string]int {
	counts := make(map[string]int)
	if img == nil {
		return counts
	}
	for _, key := range img.Order {
		counts[namespaceOf(key)]++
	}
	return counts
}

func namespaceOf(key string) string {
	if idx := strings.IndexByte(key, '('); idx > 0 {
		return key[:idx]
	}
	return key
}
