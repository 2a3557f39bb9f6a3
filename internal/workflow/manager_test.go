package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"

	"geotag/internal/config"
	"geotag/internal/geocode"
	"geotag/internal/memo"
	"geotag/internal/metadata"
	"geotag/internal/services"
	"geotag/internal/testsupport"
	"geotag/internal/workflow"
)

const praslinBody = `{"name":"Fond Ferdinand Nature Reserve","address":{"city":"Praslin","country":"Seychelles"}}`

var ferdinand = geocode.Coordinates{Lat: -4.3312, Lon: 55.7401}

// fakeExtractor returns coordinates per basename.
type fakeExtractor struct {
	coords map[string]geocode.Coordinates
	calls  int
}

func (f *fakeExtractor) Extract(_ context.Context, files []string) ([]metadata.Record, error) {
	f.calls++
	out := make([]metadata.Record, 0, len(files))
	for _, file := range files {
		rec := metadata.Record{metadata.TagSourceFile: file}
		if c, ok := f.coords[filepath.Base(file)]; ok {
			rec[metadata.TagLatitude] = c.Lat
			rec[metadata.TagLongitude] = c.Lon
		}
		out = append(out, rec)
	}
	return out, nil
}

type fixture struct {
	cfg *config.Config
	geo *testsupport.Geocoder
	ext *fakeExtractor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	geo := testsupport.NewGeocoder(t)
	geo.Respond(ferdinand.Lat, ferdinand.Lon, praslinBody)
	cfg := testsupport.NewConfig(t, testsupport.WithNativeExtractor(), testsupport.WithGeocoderURL(geo.URL()))
	cfg.Rename.DryRun = false

	root := cfg.Paths.PhotosDir
	testsupport.MakePhotoDir(t, root, "2018/2018_09_10", "a.jpg", "b.jpg", "c.jpg")
	testsupport.MakePhotoDir(t, root, "2018/2018_09_11", "d.jpg")
	testsupport.MakePhotoDir(t, root, "2018/@eaDir", "thumb.jpg")

	ext := &fakeExtractor{coords: map[string]geocode.Coordinates{
		"a.jpg": ferdinand,
		"b.jpg": ferdinand,
		"c.jpg": ferdinand,
	}}
	return &fixture{cfg: cfg, geo: geo, ext: ext}
}

func (f *fixture) run(t *testing.T, opts ...workflow.ManagerOption) (*workflow.Summary, error) {
	t.Helper()
	opts = append([]workflow.ManagerOption{workflow.WithExtractor(f.ext)}, opts...)
	return workflow.NewManager(f.cfg, nil, opts...).Run(context.Background())
}

const praslinName = "2018_09_10 Seychelles - Praslin (Fond Ferdinand Nature Reserve)"

func TestRunRenamesAndRecordsDirectories(t *testing.T) {
	f := newFixture(t)

	summary, err := f.run(t)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.RunID == "" {
		t.Fatal("expected run id")
	}
	if len(summary.Directories) != 2 {
		t.Fatalf("expected 2 directories, got %#v", summary.Directories)
	}
	if got := summary.Count(workflow.StatusRenamed); got != 1 {
		t.Fatalf("expected 1 renamed, got %d", got)
	}
	if got := summary.Count(workflow.StatusUndetermined); got != 1 {
		t.Fatalf("expected 1 undetermined, got %d", got)
	}
	if !summary.StoreActive {
		t.Fatal("expected store to be active")
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Paths.PhotosDir, "2018", praslinName)); err != nil {
		t.Fatalf("expected renamed directory: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Paths.PhotosDir, "2018", "2018_09_11")); err != nil {
		t.Fatalf("undetermined directory must keep its name: %v", err)
	}
	if calls := f.geo.Calls(); calls != 1 {
		t.Fatalf("expected one geocoder call for three identical positions, got %d", calls)
	}
	if _, err := os.Stat(f.cfg.Cache.File); err != nil {
		t.Fatalf("expected cache file to be persisted: %v", err)
	}

	st := testsupport.MustOpenStore(t, f.cfg)
	rec, err := st.FindOne(context.Background(), "2018_09_10")
	if err != nil || rec == nil {
		t.Fatalf("expected stored record, got %v, %v", rec, err)
	}
	if rec.Locations == nil || rec.Locations.Country != "Seychelles" {
		t.Fatalf("unexpected stored tree: %#v", rec.Locations)
	}
}

func TestRunSecondPassUsesStore(t *testing.T) {
	f := newFixture(t)
	if _, err := f.run(t); err != nil {
		t.Fatalf("first run: %v", err)
	}
	extractCalls := f.ext.calls

	summary, err := f.run(t)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if got := summary.CachedCount(); got != 2 {
		t.Fatalf("expected both directories served from the store, got %d", got)
	}
	if got := summary.Count(workflow.StatusUnchanged); got != 1 {
		t.Fatalf("expected renamed directory to be unchanged, got %#v", summary.Directories)
	}
	if f.ext.calls != extractCalls {
		t.Fatalf("expected no extraction on second run, got %d more", f.ext.calls-extractCalls)
	}
	if calls := f.geo.Calls(); calls != 1 {
		t.Fatalf("expected no further geocoder calls, got %d", calls)
	}
}

func TestRunDryRunLeavesDirectories(t *testing.T) {
	f := newFixture(t)

	summary, err := f.run(t, workflow.WithDryRun(true))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, d := range summary.Directories {
		if d.Applied {
			t.Fatalf("dry run applied a rename: %#v", d)
		}
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Paths.PhotosDir, "2018", "2018_09_10")); err != nil {
		t.Fatalf("expected original directory to remain: %v", err)
	}
}

func TestRunSkipStoreRecomputes(t *testing.T) {
	f := newFixture(t)
	f.cfg.Cache.Enabled = false

	summary, err := f.run(t, workflow.WithSkipStore(true), workflow.WithDryRun(true))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.StoreActive {
		t.Fatal("expected store to be skipped")
	}
	if _, err := os.Stat(f.cfg.Store.Path); !os.IsNotExist(err) {
		t.Fatalf("expected no store file, got %v", err)
	}
	if _, err := os.Stat(f.cfg.Cache.File); !os.IsNotExist(err) {
		t.Fatalf("expected no cache file, got %v", err)
	}
	if calls := f.geo.Calls(); calls != 3 {
		t.Fatalf("expected one geocoder call per photo without a cache, got %d", calls)
	}
}

func TestRunSingleDirectory(t *testing.T) {
	f := newFixture(t)
	dir := filepath.Join(f.cfg.Paths.PhotosDir, "2018", "2018_09_10")

	summary, err := f.run(t, workflow.WithDirectory(dir))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(summary.Directories) != 1 || summary.Directories[0].Target != praslinName {
		t.Fatalf("unexpected outcome: %#v", summary.Directories)
	}
}

func TestRunSingleDirectoryMissingIsFatal(t *testing.T) {
	f := newFixture(t)

	_, err := f.run(t, workflow.WithDirectory(filepath.Join(f.cfg.Paths.PhotosDir, "nope")))
	if err == nil || services.Classify(err) != services.KindFatal {
		t.Fatalf("expected fatal error, got %v", err)
	}
}

func TestRunMissingPhotoRootIsFatal(t *testing.T) {
	f := newFixture(t)
	f.cfg.Paths.PhotosDir = filepath.Join(testsupport.BaseDir(f.cfg), "missing")

	_, err := f.run(t)
	if err == nil || !errors.Is(err, services.ErrFatal) {
		t.Fatalf("expected fatal preflight error, got %v", err)
	}
}

func TestRunCorruptCacheIsFatal(t *testing.T) {
	f := newFixture(t)
	if err := os.MkdirAll(filepath.Dir(f.cfg.Cache.File), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(f.cfg.Cache.File, []byte("entries: [not, a, map"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := f.run(t)
	if !errors.Is(err, memo.ErrStoreCorrupt) {
		t.Fatalf("expected corrupt cache error, got %v", err)
	}
	if services.Classify(err) != services.KindFatal {
		t.Fatalf("expected fatal classification, got %s", services.Classify(err))
	}
}

func TestRunUnavailableStoreDegrades(t *testing.T) {
	f := newFixture(t)
	blocker := filepath.Join(testsupport.BaseDir(f.cfg), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	f.cfg.Store.Path = filepath.Join(blocker, "geotag.db")

	summary, err := f.run(t, workflow.WithDryRun(true))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.StoreActive {
		t.Fatal("expected degraded run without store")
	}
	if got := summary.Count(workflow.StatusRenamed); got != 1 {
		t.Fatalf("expected processing to continue, got %#v", summary.Directories)
	}
}

func TestRunRefusesConcurrentRun(t *testing.T) {
	f := newFixture(t)
	if err := f.cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	lock := flock.New(f.cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock: %v %v", locked, err)
	}
	defer lock.Unlock()

	_, err = f.run(t)
	if !errors.Is(err, workflow.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
}
