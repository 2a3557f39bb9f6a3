package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"geotag/internal/preflight"
	"geotag/internal/store"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify paths, external tools, the store and the geocoder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(cmd.Context(), cfg)
			if cfg.Store.Enabled {
				results = append(results, checkStore(cfg.Store.Path, func() error {
					st, err := store.OpenFromConfig(cfg)
					if err != nil {
						return err
					}
					defer st.Close()
					return st.Ping(cmd.Context())
				}))
			}
			if !offline {
				results = append(results, preflight.CheckGeocoder(cmd.Context(), cfg.Geocoder))
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, passFail(cmd.OutOrStdout(), r.Passed), r.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(tableSpec{
				headers: []string{"Check", "Status", "Detail"},
				rows:    rows,
			}))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New(pluralChecks(len(failed)) + " failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip the geocoder reachability check")
	return cmd
}

func checkStore(path string, ping func() error) preflight.Result {
	if err := ping(); err != nil {
		return preflight.Result{Name: "Store", Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return preflight.Result{Name: "Store", Passed: true, Detail: path}
}

func pluralChecks(n int) string {
	if n == 1 {
		return "1 check"
	}
	return fmt.Sprintf("%d checks", n)
}
