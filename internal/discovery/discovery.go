// Package discovery lists the photo directories a run should process.
//
// The library is laid out as <root>/<year>/<event directory>. Year folders
// are four digit names; event directories are every subdirectory of a year
// folder whose name does not match an exclusion pattern.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"geotag/internal/config"
	"geotag/internal/services"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// Options controls directory discovery.
type Options struct {
	Root string
	// StartYear is "all" or a four digit year.
	StartYear string
	// Exclude holds filepath.Match patterns tested against basenames.
	Exclude []string
}

// FromConfig builds Options from configuration.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Root:      cfg.Paths.PhotosDir,
		StartYear: cfg.Discovery.StartYear,
		Exclude:   cfg.Discovery.Exclude,
	}
}

// Directories returns event directories in year order, then name order. An
// unreadable root is fatal.
func Directories(opts Options) ([]string, error) {
	years, err := YearFolders(opts)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, year := range years {
		entries, err := os.ReadDir(year)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "discovery", "read year", year, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() || Excluded(entry.Name(), opts.Exclude) {
				continue
			}
			out = append(out, filepath.Join(year, entry.Name()))
		}
	}
	return out, nil
}

// YearFolders returns the year folders at or after the start year, sorted.
func YearFolders(opts Options) ([]string, error) {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "discovery", "stat root", opts.Root, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrFatal, "discovery", "stat root", opts.Root+" is not a directory", nil)
	}
	minYear, err := parseStartYear(opts.StartYear)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "discovery", "start year", "", err)
	}

	entries, err := os.ReadDir(opts.Root)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "discovery", "read root", opts.Root, err)
	}
	var years []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || !yearPattern.MatchString(name) || Excluded(name, opts.Exclude) {
			continue
		}
		year, _ := strconv.Atoi(name)
		if year < minYear {
			continue
		}
		years = append(years, filepath.Join(opts.Root, name))
	}
	sort.Strings(years)
	return years, nil
}

// Excluded reports whether name matches any pattern.
func Excluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if pattern == name {
			return true
		}
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

func parseStartYear(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "all") {
		return 0, nil
	}
	year, err := strconv.Atoi(value)
	if err != nil || !yearPattern.MatchString(value) {
		return 0, fmt.Errorf("start year must be \"all\" or a four digit year, got %q", value)
	}
	return year, nil
}
