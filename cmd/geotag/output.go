package main

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"geotag/internal/workflow"
)

type tableSpec struct {
	title   string
	headers []string
	rows    [][]string
	footer  []string
	// numeric lists 1-based columns that are right aligned.
	numeric []int
}

func renderTable(layout tableSpec) string {
	if len(layout.headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.SetTitle(layout.title)
	tw.AppendHeader(toRow(layout.headers, len(layout.headers)))
	for _, row := range layout.rows {
		tw.AppendRow(toRow(row, len(layout.headers)))
	}
	if len(layout.footer) > 0 {
		tw.AppendFooter(toRow(layout.footer, len(layout.headers)))
	}
	configs := make([]table.ColumnConfig, 0, len(layout.numeric))
	for _, col := range layout.numeric {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// toRow pads or truncates values to the header width.
func toRow(values []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := range row {
		row[i] = ""
		if i < len(values) {
			row[i] = values[i]
		}
	}
	return row
}

// passFail labels a check outcome, colored when w is a terminal.
func passFail(w io.Writer, passed bool) string {
	label, colors := "ok", text.Colors{text.FgGreen}
	if !passed {
		label, colors = "FAIL", text.Colors{text.FgRed, text.Bold}
	}
	if !workflow.IsTerminal(w) {
		return label
	}
	return colors.Sprint(label)
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
