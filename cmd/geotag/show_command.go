package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"geotag/internal/config"
	"geotag/internal/geotag"
	"geotag/internal/locate"
	"geotag/internal/rename"
	"geotag/internal/store"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <directory>",
		Short: "Show the stored location record for a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			identity := geotag.OriginalName(strings.TrimSpace(args[0]))
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				rec, err := st.FindOne(cmd.Context(), identity)
				if err != nil {
					return err
				}
				if rec == nil {
					return fmt.Errorf("no stored record for %q", identity)
				}
				if asJSON {
					return writeJSON(cmd, recordJSON(cfg, rec))
				}
				printRecord(cmd.OutOrStdout(), cfg, rec)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

type storedRecordJSON struct {
	Date      string       `json:"date"`
	Directory string       `json:"directory"`
	Path      string       `json:"path"`
	Checksum  string       `json:"directory_checksum"`
	Photos    int          `json:"photos"`
	URLs      []string     `json:"openmaps_urls"`
	Locations *locate.Tree `json:"locations"`
	Target    string       `json:"target,omitempty"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func recordJSON(cfg *config.Config, rec *store.Record) storedRecordJSON {
	target, _ := rename.Strategy{MinCount: cfg.Rename.MinPlaceCount}.Name(rec.Locations, rec.Date)
	return storedRecordJSON{
		Date:      rec.Date,
		Directory: rec.Directory,
		Path:      rec.Path,
		Checksum:  rec.Checksum,
		Photos:    len(rec.Metadata),
		URLs:      rec.URLs,
		Locations: rec.Locations,
		Target:    target,
		UpdatedAt: rec.UpdatedAt,
	}
}

func printRecord(out io.Writer, cfg *config.Config, rec *store.Record) {
	target, ok := rename.Strategy{MinCount: cfg.Rename.MinPlaceCount}.Name(rec.Locations, rec.Date)
	if !ok {
		target = "(location undetermined)"
	}
	country := "-"
	if rec.Locations != nil {
		country = rec.Locations.Country
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		title:   rec.Date,
		headers: []string{"Field", "Value"},
		rows: [][]string{
			{"Directory", rec.Directory},
			{"Path", rec.Path},
			{"Checksum", rec.Checksum},
			{"Photos", strconv.Itoa(len(rec.Metadata))},
			{"Geocoder lookups", strconv.Itoa(len(rec.URLs))},
			{"Country", country},
			{"Target name", target},
			{"Updated", rec.UpdatedAt.Local().Format(time.DateTime)},
		},
	}))
	if rec.Locations == nil || len(rec.Locations.Areas) == 0 {
		return
	}

	var rows [][]string
	for _, area := range rec.Locations.Areas {
		if len(area.Places) == 0 {
			rows = append(rows, []string{area.Name, "", ""})
			continue
		}
		for _, place := range area.Places {
			rows = append(rows, []string{area.Name, place.Name, strconv.Itoa(place.Count)})
		}
	}
	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"Area", "Place", "Photos"},
		rows:    rows,
		numeric: []int{3},
	}))
}
