// Package logging handles generation of analysis reports for filtered MIDI files

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/thlib/go-timezone-local/tzlocal"

	"github.com/linuxmatters/midifilter/internal/processor"
)

// ReportData contains all the information needed to generate an analysis report
type ReportData struct {
	InputPath  string
	OutputPath string
	StartTime  time.Time
	EndTime    time.Time
	Version    string
	Config     *processor.FilterChainConfig
	Result     *processor.ProcessingResult
}

// ReportPath returns where the report for outputPath is written:
// song-out.mid → song-out-report.txt
func ReportPath(outputPath string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + "-report.txt"
}

// GenerateReport writes the analysis report alongside the output file.
//
// Report structure:
// 1. Header - files, version and timestamp
// 2. Filter Chain Applied - enabled filters and their parameters
// 3. Filter Results - per-filter change counts
// 4. Event Census - Input → Output counts by event kind
func GenerateReport(data ReportData) error {
	f, err := os.Create(ReportPath(data.OutputPath))
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	WriteReport(f, data)
	return nil
}

// WriteReport renders the report to w.
func WriteReport(w io.Writer, data ReportData) {
	writeReportHeader(w, data)
	if data.Config != nil {
		writeFilterChainApplied(w, data.Config)
	}
	if data.Result != nil {
		writeFilterResults(w, data.Result.Filters)
		writeCensusTable(w, data.Result)
	}
}

// writeSection writes a section header with title and dashed underline.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "midifilter Report")
	fmt.Fprintln(w, "=================")
	fmt.Fprintf(w, "Input:     %s\n", filepath.Base(data.InputPath))
	fmt.Fprintf(w, "Output:    %s\n", filepath.Base(data.OutputPath))
	if data.Version != "" {
		fmt.Fprintf(w, "Version:   %s\n", data.Version)
	}
	fmt.Fprintf(w, "Processed: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	if zone, err := tzlocal.RuntimeTZ(); err == nil && zone != "" {
		fmt.Fprintf(w, "Time zone: %s\n", zone)
	}
	fmt.Fprintf(w, "Took:      %s\n", formatDuration(data.EndTime.Sub(data.StartTime)))
	fmt.Fprintln(w, "")
}

// writeFilterChainApplied lists the enabled filters in run order with the
// options each one used.
func writeFilterChainApplied(w io.Writer, cfg *processor.FilterChainConfig) {
	writeSection(w, "Filter Chain Applied")

	enabled := cfg.EnabledFilters()
	if len(enabled) == 0 {
		fmt.Fprintln(w, "(no filters enabled - output is a re-encoded copy)")
		fmt.Fprintln(w, "")
		return
	}
	for i, id := range enabled {
		fmt.Fprintf(w, "%d. %s (--%s)", i+1, id.Title(), id)
		if detail := filterDetail(cfg, id); detail != "" {
			fmt.Fprintf(w, ": %s", detail)
		}
		fmt.Fprintln(w, "")
	}
	fmt.Fprintln(w, "")
}

func filterDetail(cfg *processor.FilterChainConfig, id processor.FilterID) string {
	switch id {
	case processor.FilterTrim:
		tempo := "tempo de-duplication on"
		if !cfg.TrimTempo {
			tempo = "tempo de-duplication off"
		}
		return fmt.Sprintf("protect=%s, %s", cfg.TrimProtect, tempo)
	case processor.FilterClearCtrl:
		return "controllers " + cfg.ClearCtrlSpec
	case processor.FilterMaximize:
		return "mode=" + string(cfg.NormaliseMode)
	case processor.FilterMap:
		return cfg.MapSpec
	}
	return ""
}

func writeFilterResults(w io.Writer, stats []processor.FilterStats) {
	if len(stats) == 0 {
		return
	}
	writeSection(w, "Filter Results")

	table := NewMetricTable("Changed", "Removed", "Tracks", "Events")
	for _, s := range stats {
		note := ""
		if s.Skipped > 0 {
			note = fmt.Sprintf("%d left untouched", s.Skipped)
		}
		table.AddRow(s.Filter.Title(), []string{
			strconv.Itoa(s.Changed),
			strconv.Itoa(s.Removed),
			formatDelta(-s.TracksRemoved),
			formatDelta(s.EventsAfter - s.EventsBefore),
		}, note)
	}
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

func writeCensusTable(w io.Writer, r *processor.ProcessingResult) {
	writeSection(w, "Event Census")

	in, out := r.Input, r.Output
	table := NewMetricTable("Input", "Output", "Δ")
	table.AddCountRow("Tracks", in.Tracks, out.Tracks)
	table.AddCountRow("Events", in.Events, out.Events)
	table.AddCountRow("Notes", in.Notes, out.Notes)
	table.AddCountRow("Controllers", in.Controllers, out.Controllers)
	table.AddCountRow("Program changes", in.Programs, out.Programs)
	table.AddCountRow("Pitch bends", in.PitchBends, out.PitchBends)
	table.AddCountRow("Aftertouch", in.OtherVoice, out.OtherVoice)
	table.AddCountRow("Tempo events", in.Tempos, out.Tempos)
	table.AddCountRow("Other meta", in.OtherMeta, out.OtherMeta)
	table.AddCountRow("SysEx", in.SysEx, out.SysEx)
	fmt.Fprint(w, table.String())
}

// formatDuration renders short durations in ms and longer ones in seconds.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
