// Package ui provides the Bubbletea terminal user interface for midifilter
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/linuxmatters/midifilter/internal/processor"
)

// FileStatus represents the processing state of the file
type FileStatus int

const (
	StatusQueued FileStatus = iota
	StatusProcessing
	StatusComplete
	StatusError
)

// StepStatus is the state of one filter in the chain
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepDone
)

// StepProgress tracks a single filter
type StepProgress struct {
	Filter processor.FilterID
	Status StepStatus
	Stats  *processor.FilterStats
}

// Model is the Bubbletea model for the processing UI
type Model struct {
	InputPath  string
	OutputPath string
	Status     FileStatus

	Steps       []StepProgress
	CurrentStep int // index into Steps, -1 before the first filter starts

	StartTime   time.Time
	ElapsedTime time.Duration

	Result *processor.ProcessingResult
	Error  error
	Done   bool

	// Terminal dimensions
	Width  int
	Height int
}

// NewModel creates a new UI model for one input/output pair
func NewModel(inputPath, outputPath string) Model {
	return Model{
		InputPath:   inputPath,
		OutputPath:  outputPath,
		Status:      StatusQueued,
		CurrentStep: -1,
		StartTime:   time.Now(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case FileStartMsg:
		m.Status = StatusProcessing
		m.StartTime = time.Now()
		if msg.InputPath != "" {
			m.InputPath = msg.InputPath
		}
		if msg.OutputPath != "" {
			m.OutputPath = msg.OutputPath
		}
		m.Steps = make([]StepProgress, len(msg.Filters))
		for i, id := range msg.Filters {
			m.Steps[i] = StepProgress{Filter: id}
		}

	case StepMsg:
		m = m.applyStep(msg)

	case FileCompleteMsg:
		m.ElapsedTime = time.Since(m.StartTime)
		m.Result = msg.Result
		m.Error = msg.Error
		if msg.Error != nil {
			m.Status = StatusError
		} else {
			m.Status = StatusComplete
		}
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// applyStep records a filter transition. Steps the start message did not
// announce are appended so the view never drops one.
func (m Model) applyStep(msg StepMsg) Model {
	i := msg.Step - 1
	if i < 0 {
		return m
	}
	for len(m.Steps) <= i {
		m.Steps = append(m.Steps, StepProgress{})
	}
	m.Steps[i].Filter = msg.Filter
	m.CurrentStep = i
	if msg.Stats == nil {
		m.Steps[i].Status = StepRunning
	} else {
		m.Steps[i].Status = StepDone
		m.Steps[i].Stats = msg.Stats
	}
	m.ElapsedTime = time.Since(m.StartTime)
	return m
}

// Progress returns the share of filters finished, 0.0 to 1.0
func (m Model) Progress() float64 {
	if len(m.Steps) == 0 {
		if m.Done {
			return 1
		}
		return 0
	}
	done := 0
	for _, s := range m.Steps {
		if s.Status == StepDone {
			done++
		}
	}
	return float64(done) / float64(len(m.Steps))
}

// View renders the UI
func (m Model) View() string {
	if m.Width == 0 && !m.Done {
		return fmt.Sprintf("Initializing...\nFilters: %d\n", len(m.Steps))
	}

	if m.Done {
		return renderCompletionSummary(m)
	}

	return renderProcessingView(m)
}
