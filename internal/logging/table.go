// Package logging provides the charm logger setup and the per-file
// analysis report. This file contains the table formatting used by the
// report's comparison sections (Input → Output, per-filter counts).

package logging

import (
	"fmt"
	"strconv"
	"strings"
)

// MetricRow represents a single row in a comparison table.
// Values are pre-formatted strings so counts and deltas can share a column.
type MetricRow struct {
	Label  string   // Row label, e.g., "Controllers"
	Values []string // One value per column
	Note   string   // Optional trailing note (only shown if non-empty)
}

// MetricTable formats aligned columns for metric comparison.
type MetricTable struct {
	Headers []string    // Column headers, e.g., ["Input", "Output", "Δ"]
	Rows    []MetricRow // Data rows
}

// MissingValue is the placeholder for unavailable values
const MissingValue = "-"

// NewMetricTable creates a table with the given column headers.
func NewMetricTable(headers ...string) *MetricTable {
	return &MetricTable{Headers: headers}
}

// AddRow adds a row with pre-formatted values.
func (t *MetricTable) AddRow(label string, values []string, note string) {
	t.Rows = append(t.Rows, MetricRow{Label: label, Values: values, Note: note})
}

// AddCountRow adds an Input/Output/Δ row from two counts.
func (t *MetricTable) AddCountRow(label string, before, after int) {
	t.AddRow(label, []string{
		strconv.Itoa(before),
		strconv.Itoa(after),
		formatDelta(after - before),
	}, "")
}

// String renders the table with aligned columns.
// Labels are left-aligned, values right-aligned within their column,
// notes follow the last column.
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	labelWidth := 0
	for _, row := range t.Rows {
		labelWidth = max(labelWidth, len(row.Label))
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len([]rune(header))
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) {
				valueWidths[i] = max(valueWidths[i], len(val))
			}
		}
	}

	var sb strings.Builder

	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		pad := valueWidths[i] - len([]rune(header))
		sb.WriteString(strings.Repeat(" ", pad) + header + "  ")
	}
	sb.WriteString("\n")

	for _, row := range t.Rows {
		fmt.Fprintf(&sb, "%-*s  ", labelWidth, row.Label)
		for i := range t.Headers {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			fmt.Fprintf(&sb, "%*s  ", valueWidths[i], val)
		}
		if row.Note != "" {
			sb.WriteString(row.Note)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatDelta formats a count change with an explicit sign; zero is "0".
func formatDelta(d int) string {
	if d == 0 {
		return "0"
	}
	return fmt.Sprintf("%+d", d)
}
