package processor

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/linuxmatters/midifilter/internal/codec"
	"github.com/linuxmatters/midifilter/internal/midi"
)

// ProcessingResult contains the outcome of running the chain over one file
type ProcessingResult struct {
	InputPath  string
	OutputPath string

	Filters []FilterStats // one entry per filter, in run order

	Input  midi.Census // event census before filtering
	Output midi.Census // event census after filtering
}

// ProcessFile reads inputPath, runs the enabled filters and writes the
// result to outputPath.
//
// Every filter parameter is parsed before the input is read, so a bad
// --map or --clear-ctrl string never leaves a half-filtered output behind.
// If onStep is not nil it is called around each filter.
func ProcessFile(ctx context.Context, inputPath, outputPath string, config *FilterChainConfig, onStep StepFunc) (*ProcessingResult, error) {
	logger := log.FromContext(ctx)

	chain, err := BuildChain(config)
	if err != nil {
		return nil, err
	}

	f, err := codec.ReadFile(inputPath)
	if err != nil {
		return nil, err
	}

	result := &ProcessingResult{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Input:      midi.TakeCensus(f),
	}
	logger.Debug("decoded input",
		"path", inputPath,
		"format", f.Format,
		"tracks", result.Input.Tracks,
		"events", result.Input.Events,
	)

	result.Filters = chain.Apply(ctx, f, onStep)
	result.Output = midi.TakeCensus(f)

	if err := codec.WriteFile(outputPath, f); err != nil {
		return nil, err
	}
	logger.Debug("wrote output",
		"path", outputPath,
		"tracks", result.Output.Tracks,
		"events", result.Output.Events,
	)
	return result, nil
}
