package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Southclaws/fault/fmsg"
	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/linuxmatters/midifilter/internal/cli"
	"github.com/linuxmatters/midifilter/internal/config"
	"github.com/linuxmatters/midifilter/internal/logging"
	"github.com/linuxmatters/midifilter/internal/processor"
	"github.com/linuxmatters/midifilter/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Config  string `short:"c" type:"path" help:"Path to JSON config file (optional)"`
	Logs    bool   `help:"Save an analysis report next to the output file"`
	Plain   bool   `help:"Print a plain summary instead of the interactive display"`
	Debug   bool   `help:"Log every filter's counts"`

	Maximize    bool    `help:"Scale volume, expression and velocity up to the full range"`
	Map         *string `placeholder:"spec" help:"Remap programs, drum keys and transpositions"`
	QuantizeBPM bool    `name:"quantize-bpm" help:"Round every tempo to a whole BPM"`
	ClearCtrl   *string `name:"clear-ctrl" placeholder:"csv" help:"Remove the listed controller numbers"`
	Trim        bool    `help:"Drop redundant events and empty tracks"`

	NormaliseMode string `name:"normalise-mode" placeholder:"mode" help:"Maximize across the whole file or per track (global|track)"`
	TrimProtect   string `name:"trim-protect" placeholder:"set" help:"Meta events that keep a track alive (structural|tempo)"`
	NoTrimTempo   bool   `name:"no-trim-tempo" help:"Keep repeated tempo events when trimming"`

	Input  string `arg:"" name:"input" help:"MIDI file to read" type:"existingfile" optional:""`
	Output string `arg:"" name:"output" help:"MIDI file to write (replaced if it exists)" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("midifilter"),
		kong.Description("Batch filter for Standard MIDI Files"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if cliArgs.Input == "" || cliArgs.Output == "" {
		cli.PrintError("An input and an output file are required")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	fileCfg, err := config.Load(cliArgs.Config)
	if err != nil {
		fail(err)
	}

	filterCfg, err := buildFilterConfig(cliArgs, fileCfg)
	if err != nil {
		fail(err)
	}

	// Reject bad parameter strings before any output exists
	if _, err := processor.BuildChain(filterCfg); err != nil {
		fail(err)
	}

	debug := cliArgs.Debug || fileCfg.Debug
	var logOut io.Writer = os.Stderr
	if !cliArgs.Plain {
		debugLog, err := os.Create("midifilter-debug.log")
		if err == nil {
			defer debugLog.Close()
			logOut = debugLog
		} else {
			logOut = io.Discard
		}
	}
	logger := logging.NewLogger(logOut, debug)
	runCtx := log.WithContext(context.Background(), logger)

	if cliArgs.Plain {
		result, err := run(runCtx, cliArgs, filterCfg, nil)
		if err != nil {
			fail(err)
		}
		cli.PrintSummary(os.Stdout, result)
		return
	}

	model := ui.NewModel(cliArgs.Input, cliArgs.Output)
	p := tea.NewProgram(model)

	go func() {
		p.Send(ui.FileStartMsg{
			InputPath:  cliArgs.Input,
			OutputPath: cliArgs.Output,
			Filters:    filterCfg.EnabledFilters(),
		})

		onStep := func(step, total int, id processor.FilterID, stats *processor.FilterStats) {
			p.Send(ui.StepMsg{Step: step, Total: total, Filter: id, Stats: stats})
		}

		result, err := run(runCtx, cliArgs, filterCfg, onStep)
		p.Send(ui.FileCompleteMsg{Result: result, Error: err})
	}()

	final, err := p.Run()
	if err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
	if m, ok := final.(ui.Model); ok && m.Status == ui.StatusError {
		os.Exit(1)
	}
}

// run processes the file and writes the report when asked to
func run(ctx context.Context, cliArgs *CLI, filterCfg *processor.FilterChainConfig, onStep processor.StepFunc) (*processor.ProcessingResult, error) {
	logger := log.FromContext(ctx)
	start := time.Now()

	result, err := processor.ProcessFile(ctx, cliArgs.Input, cliArgs.Output, filterCfg, onStep)
	if err != nil {
		logger.Error("processing failed", "input", cliArgs.Input, "err", err)
		return nil, err
	}
	logger.Info("wrote output", "path", cliArgs.Output, "took", time.Since(start))

	if cliArgs.Logs {
		reportData := logging.ReportData{
			InputPath:  cliArgs.Input,
			OutputPath: cliArgs.Output,
			StartTime:  start,
			EndTime:    time.Now(),
			Version:    version,
			Config:     filterCfg,
			Result:     result,
		}
		if err := logging.GenerateReport(reportData); err != nil {
			logger.Warn("failed to generate report", "err", err)
		}
	}
	return result, nil
}

// buildFilterConfig layers defaults, then the config file, then flags
func buildFilterConfig(cliArgs *CLI, fileCfg *config.Config) (*processor.FilterChainConfig, error) {
	fc := processor.DefaultFilterConfig()
	if err := fileCfg.Apply(fc); err != nil {
		return nil, err
	}

	if cliArgs.Maximize {
		fc.MaximizeEnabled = true
	}
	if cliArgs.QuantizeBPM {
		fc.QuantizeEnabled = true
	}
	if cliArgs.Trim {
		fc.TrimEnabled = true
	}
	// nil means the flag was absent; an empty value still reaches the parser
	if cliArgs.Map != nil {
		fc.MapEnabled = true
		fc.MapSpec = *cliArgs.Map
	}
	if cliArgs.ClearCtrl != nil {
		fc.ClearCtrlEnabled = true
		fc.ClearCtrlSpec = *cliArgs.ClearCtrl
	}
	if cliArgs.NormaliseMode != "" {
		mode, err := processor.ParseNormaliseMode(cliArgs.NormaliseMode)
		if err != nil {
			return nil, err
		}
		fc.NormaliseMode = mode
	}
	if cliArgs.TrimProtect != "" {
		protect, err := processor.ParseProtectSet(cliArgs.TrimProtect)
		if err != nil {
			return nil, err
		}
		fc.TrimProtect = protect
	}
	if cliArgs.NoTrimTempo {
		fc.TrimTempo = false
	}
	return fc, nil
}

// fail prints the user-facing part of err and exits
func fail(err error) {
	msg := fmsg.GetIssue(err)
	if msg == "" {
		var ce *processor.ConfigError
		if errors.As(err, &ce) {
			msg = ce.Error()
		} else {
			msg = err.Error()
		}
	}
	cli.PrintError(msg)
	os.Exit(1)
}
