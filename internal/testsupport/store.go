package testsupport

import (
	"testing"

	"geotag/internal/config"
	"geotag/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	s, err := store.OpenFromConfig(cfg)
	if err != nil {
		t.Fatalf("store.OpenFromConfig: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})
	return s
}
