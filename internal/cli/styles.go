package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/midifilter/internal/processor"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#7D56F4") // midifilter violet
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
	errorColor   = lipgloss.Color("#A40000")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("midifilter 🎹"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintSummary writes the per-filter outcome of a run, used when the TUI
// is disabled.
func PrintSummary(w io.Writer, result *processor.ProcessingResult) {
	fmt.Fprintf(w, "%s → %s\n", filepath.Base(result.InputPath), filepath.Base(result.OutputPath))
	for _, s := range result.Filters {
		fmt.Fprintf(w, "  %s %s\n",
			KeyStyle.Render(s.Filter.Title()+":"),
			ValueStyle.Render(fmt.Sprintf("%d changed, %d removed, %d track(s) dropped",
				s.Changed, s.Removed, s.TracksRemoved)))
	}
	in, out := result.Input, result.Output
	fmt.Fprintf(w, "  %s %s\n",
		KeyStyle.Render("Events:"),
		ValueStyle.Render(fmt.Sprintf("%d → %d in %d → %d track(s)", in.Events, out.Events, in.Tracks, out.Tracks)))
}
