package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"geotag/internal/config"
	"geotag/internal/geotag"
	"geotag/internal/store"
)

func newStoreCommand(ctx *commandContext) *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect and maintain the location store",
	}
	storeCmd.AddCommand(newStoreListCommand(ctx))
	storeCmd.AddCommand(newStoreDeleteCommand(ctx))
	return storeCmd
}

func newStoreListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored directory records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				summaries, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, summaries)
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No stored records")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					country := s.Country
					if country == "" {
						country = "-"
					}
					rows = append(rows, []string{
						s.Date,
						s.Directory,
						country,
						strconv.Itoa(s.AreaCount),
						strconv.Itoa(s.PhotoCount),
						s.UpdatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(out, renderTable(tableSpec{
					headers: []string{"Date", "Directory", "Country", "Areas", "Photos", "Updated"},
					rows:    rows,
					numeric: []int{4, 5},
				}))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func newStoreDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <directory>...",
		Short: "Delete stored records so the directories are recomputed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(_ *config.Config, st *store.Store) error {
				out := cmd.OutOrStdout()
				for _, arg := range args {
					identity := geotag.OriginalName(strings.TrimSpace(arg))
					removed, err := st.Delete(cmd.Context(), identity)
					if err != nil {
						return err
					}
					if removed {
						fmt.Fprintf(out, "Deleted %s\n", identity)
					} else {
						fmt.Fprintf(out, "No record for %s\n", identity)
					}
				}
				return nil
			})
		},
	}
}
