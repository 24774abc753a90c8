package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/linuxmatters/midifilter/internal/processor"
)

func update(t *testing.T, m Model, msg any) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model
}

func TestModelStepProgress(t *testing.T) {
	m := NewModel("in.mid", "out.mid")
	m = update(t, m, FileStartMsg{
		Filters: []processor.FilterID{processor.FilterTrim, processor.FilterMaximize},
	})

	if m.Status != StatusProcessing {
		t.Errorf("Status = %v, want StatusProcessing", m.Status)
	}
	if len(m.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(m.Steps))
	}

	m = update(t, m, StepMsg{Step: 1, Total: 2, Filter: processor.FilterTrim})
	if m.Steps[0].Status != StepRunning {
		t.Errorf("step 1 status = %v, want StepRunning", m.Steps[0].Status)
	}
	if got := m.Progress(); got != 0 {
		t.Errorf("Progress() = %v, want 0", got)
	}

	stats := &processor.FilterStats{Filter: processor.FilterTrim, Removed: 4}
	m = update(t, m, StepMsg{Step: 1, Total: 2, Filter: processor.FilterTrim, Stats: stats})
	if m.Steps[0].Status != StepDone {
		t.Errorf("step 1 status = %v, want StepDone", m.Steps[0].Status)
	}
	if got := m.Progress(); got != 0.5 {
		t.Errorf("Progress() = %v, want 0.5", got)
	}
	if m.CurrentStep != 0 {
		t.Errorf("CurrentStep = %d, want 0", m.CurrentStep)
	}
}

func TestModelUnannouncedStep(t *testing.T) {
	m := NewModel("in.mid", "out.mid")
	m = update(t, m, StepMsg{Step: 2, Total: 2, Filter: processor.FilterMap})
	if len(m.Steps) != 2 {
		t.Fatalf("len(Steps) = %d, want 2", len(m.Steps))
	}
	if m.Steps[1].Filter != processor.FilterMap {
		t.Errorf("Steps[1].Filter = %q, want %q", m.Steps[1].Filter, processor.FilterMap)
	}
}

func TestModelComplete(t *testing.T) {
	tests := []struct {
		name   string
		msg    FileCompleteMsg
		status FileStatus
		want   string
	}{
		{
			name:   "success",
			msg:    FileCompleteMsg{Result: &processor.ProcessingResult{}},
			status: StatusComplete,
			want:   "Processing Complete",
		},
		{
			name:   "failure",
			msg:    FileCompleteMsg{Error: errors.New("bad header")},
			status: StatusError,
			want:   "bad header",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel("in.mid", "out.mid")
			next, cmd := m.Update(tt.msg)
			m = next.(Model)
			if !m.Done {
				t.Error("Done = false after FileCompleteMsg")
			}
			if cmd == nil {
				t.Error("expected quit command after FileCompleteMsg")
			}
			if m.Status != tt.status {
				t.Errorf("Status = %v, want %v", m.Status, tt.status)
			}
			if view := m.View(); !strings.Contains(view, tt.want) {
				t.Errorf("View() missing %q:\n%s", tt.want, view)
			}
		})
	}
}

func TestSummariseStats(t *testing.T) {
	tests := []struct {
		name  string
		stats *processor.FilterStats
		want  string
	}{
		{"nil", nil, ""},
		{"changed", &processor.FilterStats{Changed: 3}, "3 changed"},
		{"removed and dropped", &processor.FilterStats{Removed: 2, TracksRemoved: 1}, "2 removed, 1 track(s) dropped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := summariseStats(tt.stats); got != tt.want {
				t.Errorf("summariseStats() = %q, want %q", got, tt.want)
			}
		})
	}
}
