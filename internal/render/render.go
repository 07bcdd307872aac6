// Package render writes dashboard views to a terminal or file as a table,
// CSV or JSON.
package render

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/MikeSquared-Agency/Rankboard/internal/backend"
	"github.com/MikeSquared-Agency/Rankboard/internal/scoring"
)

type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table, csv or json)", s)
}

// Pivot writes a pivoted score table. Only the given variants are shown;
// cells without data stay blank.
func Pivot(w io.Writer, format Format, table scoring.PivotTable, headers []scoring.ColumnHeader, variants []scoring.Variant) error {
	if format == FormatJSON {
		return writeJSON(w, struct {
			scoring.PivotTable
			Headers []scoring.ColumnHeader `json:"headers"`
		}{table, headers})
	}

	cols := []string{"ID", "Product"}
	for _, h := range headers {
		for _, v := range variants {
			cols = append(cols, columnLabel(h.Label, v))
		}
	}
	var data [][]string
	for _, row := range table.Rows {
		line := []string{strconv.FormatInt(row.ID, 10), row.Name}
		for _, h := range headers {
			for _, v := range variants {
				cell, _ := row.Value(h.CriterionID, v)
				line = append(line, cell)
			}
		}
		data = append(data, line)
	}
	return writeRows(w, format, cols, data)
}

// Ranking writes ranked final scores.
func Ranking(w io.Writer, format Format, entries []scoring.RankEntry) error {
	if format == FormatJSON {
		return writeJSON(w, entries)
	}
	var data [][]string
	for _, e := range entries {
		data = append(data, []string{strconv.Itoa(e.Rank), strconv.FormatInt(e.ID, 10), e.Name, e.Display})
	}
	return writeRows(w, format, []string{"Rank", "ID", "Product", "Final Score"}, data)
}

// Report writes numbered report rows.
func Report(w io.Writer, format Format, entries []scoring.ReportEntry) error {
	if format == FormatJSON {
		return writeJSON(w, entries)
	}
	var data [][]string
	for _, e := range entries {
		data = append(data, []string{strconv.Itoa(e.Rank), e.Product.Name, e.Product.Unit, e.FinalScore})
	}
	return writeRows(w, format, []string{"Rank", "Product", "Unit", "Final Score"}, data)
}

func Methods(w io.Writer, format Format, methods []backend.Method) error {
	if format == FormatJSON {
		return writeJSON(w, methods)
	}
	var data [][]string
	for _, m := range methods {
		data = append(data, []string{strconv.FormatInt(m.ID, 10), m.Name})
	}
	return writeRows(w, format, []string{"ID", "Name"}, data)
}

func columnLabel(label string, v scoring.Variant) string {
	switch v {
	case scoring.VariantScoreOne:
		return label + " (1)"
	case scoring.VariantScoreTwo:
		return label + " (2)"
	}
	return label
}

func writeRows(w io.Writer, format Format, header []string, data [][]string) error {
	if format == FormatCSV {
		csvWriter := csv.NewWriter(w)
		if err := csvWriter.Write(header); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
		if err := csvWriter.WriteAll(data); err != nil {
			return fmt.Errorf("failed to write CSV rows: %w", err)
		}
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header(header)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
