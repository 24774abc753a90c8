package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/midifilter/internal/processor"
)

// Custom help styles
var (
	helpTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Italic(true).
			MarginBottom(1)

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFA500")).
				MarginTop(1)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// mapSyntax documents the --map and --clear-ctrl entry formats
var mapSyntax = []string{
	helpArgStyle.Render("drum=P") + "      notes played by program P are drum keys",
	helpArgStyle.Render("imap=A:B") + "    rewrite program A to B",
	helpArgStyle.Render("dmap=A:B") + "    rewrite drum key A to B",
	helpArgStyle.Render("trans=P:N") + "   shift notes played by program P by N semitones",
	"",
	"Entries are comma separated, e.g. " + helpDefaultStyle.Render("--map drum=127,imap=50:49,dmap=60:36,trans=50:-12"),
	"Controller lists are comma separated numbers, e.g. " + helpDefaultStyle.Render("--clear-ctrl 7,10"),
}

// StyledHelpPrinter creates a custom help printer with Lipgloss styling.
// Filter flags are listed in the order the filters run.
func StyledHelpPrinter(options kong.HelpOptions) func(options kong.HelpOptions, ctx *kong.Context) error {
	return func(options kong.HelpOptions, ctx *kong.Context) error {
		var sb strings.Builder

		sb.WriteString(helpTitleStyle.Render("midifilter 🎹"))
		sb.WriteString("\n")
		sb.WriteString(helpDescStyle.Render("Batch filter for Standard MIDI Files"))
		sb.WriteString("\n")

		writeHelpSection(&sb, "Usage:")
		fmt.Fprintf(&sb, "  %s [flags] <input> <output>\n", ctx.Model.Name)

		if args := getArguments(ctx); len(args) > 0 {
			sb.WriteString("\n")
			writeHelpSection(&sb, "Arguments:")
			for _, arg := range args {
				sb.WriteString("  " + helpArgStyle.Render(arg.name))
				if arg.help != "" {
					sb.WriteString("  " + arg.help)
				}
				sb.WriteString("\n")
			}
		}

		filters, other := splitFlags(getFlags(ctx))
		if len(filters) > 0 {
			sb.WriteString("\n")
			writeHelpSection(&sb, "Filters (run in this order):")
			writeFlags(&sb, filters)
		}
		sb.WriteString("\n")
		writeHelpSection(&sb, "Options:")
		writeFlags(&sb, other)

		sb.WriteString("\n")
		writeHelpSection(&sb, "Map syntax:")
		for _, line := range mapSyntax {
			sb.WriteString("  " + line + "\n")
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

func writeHelpSection(sb *strings.Builder, title string) {
	sb.WriteString(helpSectionStyle.Render(title))
	sb.WriteString("\n")
}

func writeFlags(sb *strings.Builder, flags []flag) {
	for _, f := range flags {
		sb.WriteString("  " + helpFlagStyle.Render(f.flags))
		if f.help != "" {
			sb.WriteString("  " + f.help)
		}
		if f.defaultVal != "" {
			sb.WriteString(" " + helpDefaultStyle.Render("(default: "+f.defaultVal+")"))
		}
		sb.WriteString("\n")
	}
}

type argument struct {
	name string
	help string
}

type flag struct {
	name       string
	flags      string
	help       string
	defaultVal string
}

func getArguments(ctx *kong.Context) []argument {
	var args []argument
	for _, arg := range ctx.Model.Node.Positional {
		args = append(args, argument{name: arg.Summary(), help: arg.Help})
	}
	return args
}

func getFlags(ctx *kong.Context) []flag {
	flags := []flag{{
		name:  "help",
		flags: "-h, --help",
		help:  "Show context-sensitive help.",
	}}

	for _, f := range ctx.Model.Node.Flags {
		if f.Name == "help" {
			continue
		}

		flagStr := fmt.Sprintf("--%s", f.Name)
		if f.Short != 0 {
			flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
		}
		if !f.IsBool() && f.PlaceHolder != "" {
			flagStr += "=" + strings.ToUpper(f.PlaceHolder)
		}

		flags = append(flags, flag{
			name:       f.Name,
			flags:      flagStr,
			help:       f.Help,
			defaultVal: f.Default,
		})
	}
	return flags
}

// splitFlags separates the filter switches, sorted into chain order, from
// everything else.
func splitFlags(all []flag) (filters, other []flag) {
	for _, f := range all {
		if slices.Contains(processor.DefaultFilterOrder, processor.FilterID(f.name)) {
			filters = append(filters, f)
		} else {
			other = append(other, f)
		}
	}
	slices.SortStableFunc(filters, func(a, b flag) int {
		return slices.Index(processor.DefaultFilterOrder, processor.FilterID(a.name)) -
			slices.Index(processor.DefaultFilterOrder, processor.FilterID(b.name))
	})
	return filters, other
}
