package ui

import (
	"github.com/linuxmatters/midifilter/internal/processor"
)

// FileStartMsg indicates the input file has been accepted and the chain
// is about to run
type FileStartMsg struct {
	InputPath  string
	OutputPath string
	Filters    []processor.FilterID // enabled filters in run order
}

// StepMsg reports a filter starting (Stats nil) or finishing
type StepMsg struct {
	Step   int // 1-based
	Total  int
	Filter processor.FilterID
	Stats  *processor.FilterStats
}

// FileCompleteMsg indicates the output has been written, or why it was not
type FileCompleteMsg struct {
	Result *processor.ProcessingResult
	Error  error
}
