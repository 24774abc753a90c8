package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/linuxmatters/midifilter/internal/processor"
)

var (
	accentColor = lipgloss.Color("#7D56F4")
	okColor     = lipgloss.Color("#00AA00")
	busyColor   = lipgloss.Color("#FFA500")
	failColor   = lipgloss.Color("#A40000")
	mutedColor  = lipgloss.Color("#888888")
)

// renderProcessingView renders the main processing view
func renderProcessingView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(renderFileLine(m))
	b.WriteString("\n")
	b.WriteString(renderSteps(m))
	b.WriteString("\n")

	b.WriteString(renderOverallProgress(m))

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Render("midifilter 🎹 - MIDI Batch Filter")

	subtitle := lipgloss.NewStyle().
		Foreground(mutedColor).
		Italic(true).
		Render(fmt.Sprintf("Running %d filter(s)", len(m.Steps)))

	return title + "\n" + subtitle
}

func renderFileLine(m Model) string {
	icon := lipgloss.NewStyle().Foreground(busyColor).Render("⚙")
	return fmt.Sprintf(" %s %s → %s", icon, filepath.Base(m.InputPath), filepath.Base(m.OutputPath))
}

// renderSteps renders the filter chain with a status icon per filter
func renderSteps(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accentColor).
		Padding(0, 1).
		Width(60)

	if len(m.Steps) == 0 {
		return box.Render("No filters enabled, re-encoding only")
	}

	var content strings.Builder
	for i, step := range m.Steps {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(renderStep(step))
	}
	return box.Render(content.String())
}

func renderStep(step StepProgress) string {
	switch step.Status {
	case StepDone:
		icon := lipgloss.NewStyle().Foreground(okColor).Render("✓")
		return fmt.Sprintf("%s %s  %s", icon, step.Filter.Title(), summariseStats(step.Stats))
	case StepRunning:
		icon := lipgloss.NewStyle().Foreground(busyColor).Render("⚙")
		return fmt.Sprintf("%s %s...", icon, step.Filter.Title())
	default:
		icon := lipgloss.NewStyle().Foreground(mutedColor).Render("○")
		return fmt.Sprintf("%s %s", icon, step.Filter.Title())
	}
}

// summariseStats gives the one-line outcome of a filter
func summariseStats(s *processor.FilterStats) string {
	if s == nil {
		return ""
	}
	parts := []string{}
	if s.Changed > 0 {
		parts = append(parts, fmt.Sprintf("%d changed", s.Changed))
	}
	if s.Removed > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", s.Removed))
	}
	if s.TracksRemoved > 0 {
		parts = append(parts, fmt.Sprintf("%d track(s) dropped", s.TracksRemoved))
	}
	if len(parts) == 0 {
		return lipgloss.NewStyle().Foreground(mutedColor).Render("no changes")
	}
	return strings.Join(parts, ", ")
}

// renderProgressBar renders a progress bar
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled

	bar := strings.Repeat("█", filled) + strings.Repeat("░", empty)
	percentage := int(progress * 100)

	return fmt.Sprintf("%s %d%%", bar, percentage)
}

// renderOverallProgress renders the overall progress footer
func renderOverallProgress(m Model) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Padding(0, 1).
		Width(60)

	var content string
	if m.CurrentStep >= 0 && m.CurrentStep < len(m.Steps) {
		content = fmt.Sprintf("Filter %d of %d | ⏱  %.1fs\n%s",
			m.CurrentStep+1, len(m.Steps), m.ElapsedTime.Seconds(),
			renderProgressBar(m.Progress(), 40))
	} else {
		content = renderProgressBar(m.Progress(), 40)
	}

	return box.Render(content)
}

// renderCompletionSummary renders the final completion summary
func renderCompletionSummary(m Model) string {
	var b strings.Builder

	if m.Error != nil {
		icon := lipgloss.NewStyle().Bold(true).Foreground(failColor).Render("✗ Processing Failed")
		b.WriteString(icon)
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("   %s\n   Error: %v\n", filepath.Base(m.InputPath), m.Error))
		return b.String()
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(okColor).
		Render("✨ Processing Complete!")
	b.WriteString(header)
	b.WriteString("\n\n")

	icon := lipgloss.NewStyle().Foreground(okColor).Render("✓")
	b.WriteString(fmt.Sprintf(" %s %s → %s\n", icon, filepath.Base(m.InputPath), filepath.Base(m.OutputPath)))

	if m.Result != nil {
		for _, s := range m.Result.Filters {
			b.WriteString(fmt.Sprintf("   %s: %s\n", s.Filter.Title(), summariseStats(&s)))
		}
		in, out := m.Result.Input, m.Result.Output
		b.WriteString("\n")
		b.WriteString(strings.Repeat("─", 60))
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("Tracks: %d → %d | Events: %d → %d\n",
			in.Tracks, out.Tracks, in.Events, out.Events))
	}

	return b.String()
}
