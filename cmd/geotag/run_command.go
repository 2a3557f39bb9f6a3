package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"geotag/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipStore bool
	var directory string
	var dryRun bool
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Geotag and rename photo directories",
		Long: "Scan the photo library (or one directory), resolve where each directory's photos\n" +
			"were taken and rename it after the country, areas and frequent places.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := []workflow.ManagerOption{
				workflow.WithSkipStore(skipStore),
				workflow.WithDirectory(strings.TrimSpace(directory)),
			}
			if cmd.Flags().Changed("dry-run") {
				opts = append(opts, workflow.WithDryRun(dryRun))
			}
			if !noProgress {
				opts = append(opts, workflow.WithProgress(cmd.ErrOrStderr()))
			}

			summary, err := workflow.NewManager(cfg, logger, opts...).Run(cmd.Context())
			if summary != nil && len(summary.Directories) > 0 {
				printRunSummary(cmd.OutOrStdout(), summary)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&skipStore, "skip-store", false, "Skip staleness checks and do not record results")
	cmd.Flags().StringVarP(&directory, "directory", "d", "", "Process only this directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", true, "Log renames without applying them (defaults to rename.dry_run)")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	return cmd
}

func printRunSummary(out io.Writer, summary *workflow.Summary) {
	rows := make([][]string, 0, len(summary.Directories))
	for _, d := range summary.Directories {
		target := d.Target
		if d.Err != nil {
			target = d.Err.Error()
		}
		rows = append(rows, []string{
			filepath.Base(d.Directory),
			string(d.Status),
			yesNo(d.Cached),
			target,
		})
	}
	mode := "applied"
	if summary.DryRun {
		mode = "dry run"
	}
	fmt.Fprintf(out, "Run %s (%s)\n", summary.RunID, mode)
	fmt.Fprintln(out, renderTable(tableSpec{
		headers: []string{"Directory", "Status", "Stored", "Target"},
		rows:    rows,
		footer: []string{
			strconv.Itoa(len(summary.Directories)) + " directories",
			fmt.Sprintf("%d renamed", summary.Count(workflow.StatusRenamed)),
			strconv.Itoa(summary.CachedCount()),
			summary.Finished.Sub(summary.Started).Round(time.Millisecond).String(),
		},
	}))
}
