package store_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"geotag/internal/locate"
	"geotag/internal/metadata"
	"geotag/internal/services"
	"geotag/internal/store"
	"geotag/internal/testsupport"
)

func sampleRecord() *store.Record {
	return &store.Record{
		Date:      "2018_09_10",
		Directory: "2018_09_10",
		Path:      "/photos/2018/2018_09_10",
		Checksum:  "0123456789abcdef",
		Metadata: []metadata.Record{
			{metadata.TagSourceFile: "/photos/2018/2018_09_10/IMG_0001.JPG", metadata.TagLatitude: -4.3, metadata.TagLongitude: 55.7},
		},
		URLs: []string{"https://nominatim.example/reverse?lat=-4.3&lon=55.7"},
		Locations: &locate.Tree{
			Country: "Seychelles",
			Areas: []locate.AreaCount{
				{Name: "Praslin", Places: []locate.PlaceCount{{Name: "Fond Ferdinand Nature Reserve", Count: 3}}},
				{Name: "La Digue", Places: []locate.PlaceCount{}},
			},
		},
	}
}

func TestInsertAndFindOne(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := s.Insert(ctx, sampleRecord()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := s.FindOne(ctx, "2018_09_10")
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got == nil {
		t.Fatal("expected record")
	}
	if got.Checksum != "0123456789abcdef" || got.Path != "/photos/2018/2018_09_10" {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.Locations == nil || got.Locations.Count("Praslin", "Fond Ferdinand Nature Reserve") != 3 {
		t.Fatalf("unexpected locations %+v", got.Locations)
	}
	if names := got.Locations.AreaNames(); len(names) != 2 || names[1] != "La Digue" {
		t.Fatalf("area order lost: %v", names)
	}
	if len(got.Metadata) != 1 {
		t.Fatalf("metadata = %+v", got.Metadata)
	}
	if coords, ok := got.Metadata[0].Coordinates(); !ok || coords.Lat != -4.3 {
		t.Fatalf("metadata coordinates lost: %+v", got.Metadata[0])
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps")
	}
}

func TestFindOneMissingReturnsNil(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	got, err := s.FindOne(context.Background(), "1999_01_01")
	if err != nil || got != nil {
		t.Fatalf("FindOne = %+v, %v; want nil, nil", got, err)
	}
}

func TestInsertDuplicate(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if err := s.Insert(ctx, sampleRecord()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	err := s.Insert(ctx, sampleRecord())
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUpsertOverwritesAndKeepsNullLocations(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if err := s.Insert(ctx, sampleRecord()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	first, err := s.FindOne(ctx, "2018_09_10")
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}

	updated := sampleRecord()
	updated.Directory = "2018_09_10 Seychelles - Praslin"
	updated.Checksum = "fedcba9876543210"
	updated.Locations = nil
	if err := s.Upsert(ctx, updated); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := s.FindOne(ctx, "2018_09_10")
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if got.Checksum != "fedcba9876543210" || got.Directory != "2018_09_10 Seychelles - Praslin" {
		t.Fatalf("upsert did not overwrite: %+v", got)
	}
	if got.Locations != nil {
		t.Fatalf("expected undetermined location to stay nil, got %+v", got.Locations)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("created_at changed: %v -> %v", first.CreatedAt, got.CreatedAt)
	}
	if got.ID != first.ID {
		t.Fatalf("id changed: %d -> %d", first.ID, got.ID)
	}
}

func TestListAndDelete(t *testing.T) {
	s := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	second := sampleRecord()
	second.Date = "2019_01_02"
	second.Directory = "2019_01_02"
	second.Locations = nil
	for _, rec := range []*store.Record{second, sampleRecord()} {
		if err := s.Upsert(ctx, rec); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Date != "2018_09_10" || list[1].Date != "2019_01_02" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list[0].Country != "Seychelles" || list[0].AreaCount != 2 || list[0].PhotoCount != 1 {
		t.Fatalf("unexpected summary %+v", list[0])
	}
	if list[1].Country != "" {
		t.Fatalf("expected empty country for undetermined record, got %q", list[1].Country)
	}

	removed, err := s.Delete(ctx, "2019_01_02")
	if err != nil || !removed {
		t.Fatalf("Delete = %v, %v", removed, err)
	}
	removed, err = s.Delete(ctx, "2019_01_02")
	if err != nil || removed {
		t.Fatalf("second Delete = %v, %v", removed, err)
	}
}

func TestPingAndReopen(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s, err := store.OpenFromConfig(cfg)
	if err != nil {
		t.Fatalf("OpenFromConfig: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := s.Insert(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenStore(t, cfg)
	got, err := reopened.FindOne(context.Background(), "2018_09_10")
	if err != nil || got == nil {
		t.Fatalf("FindOne after reopen = %+v, %v", got, err)
	}
}

func TestOpenUnwritablePathIsStoreUnavailable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	testsupport.WriteFile(t, blocker, 1)

	_, err := store.Open(filepath.Join(blocker, "geotag.db"))
	if err == nil {
		t.Fatal("expected error opening store beneath a regular file")
	}
	if services.Classify(err) != services.KindDegraded {
		t.Fatalf("expected degraded classification, got %v (%v)", services.Classify(err), err)
	}
}

func TestOpenRejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geotag.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("bump user_version: %v", err)
	}
	_ = db.Close()

	_, err = store.Open(path)
	if !errors.Is(err, store.ErrSchemaMismatch) {
		t.Fatalf("expected schema mismatch, got %v", err)
	}
	if !errors.Is(err, services.ErrStoreUnavailable) {
		t.Fatalf("expected store unavailable marker, got %v", err)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geotag.db")
	s, err := store.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Insert(context.Background(), sampleRecord()); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_ = s.Close()

	s, err = store.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.FindOne(context.Background(), "2018_09_10")
	if err != nil || got == nil {
		t.Fatalf("expected record after reopen, got %v, %v", got, err)
	}
}
