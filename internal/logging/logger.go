package logging

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the run logger. Debug adds per-filter counts and caller
// locations.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	opts := log.Options{
		Prefix:          "midifilter",
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           log.InfoLevel,
	}
	if debug {
		opts.Level = log.DebugLevel
		opts.ReportCaller = true
	}
	return log.NewWithOptions(w, opts)
}
