// Package processor holds the MIDI filter chain
package processor

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/linuxmatters/midifilter/internal/midi"
)

// FilterID identifies a filter in the processing chain. The value doubles
// as the CLI flag name.
type FilterID string

// Filter identifiers
const (
	FilterQuantizeTempo FilterID = "quantize-bpm" // round tempo events to whole BPM
	FilterTrim          FilterID = "trim"         // drop empty tracks and no-op events
	FilterClearCtrl     FilterID = "clear-ctrl"   // delete controller events by number
	FilterMaximize      FilterID = "maximize"     // scale levels up to full range
	FilterMap           FilterID = "map"          // remap programs and drum keys, transpose
)

// DefaultFilterOrder is the order filters run in when more than one is enabled.
// Order rationale:
// - QuantizeTempo first: rounding makes neighbouring tempo events equal
// - Trim: then removes those duplicates along with empty tracks
// - ClearCtrl: before Maximize so erased controllers don't set the peaks
// - Maximize: on the surviving controller and velocity values
// - Map: last, it only rewrites programs and keys
var DefaultFilterOrder = []FilterID{
	FilterQuantizeTempo,
	FilterTrim,
	FilterClearCtrl,
	FilterMaximize,
	FilterMap,
}

// filterTitles are the progress announcements for each filter
var filterTitles = map[FilterID]string{
	FilterQuantizeTempo: "Quantizing Tempo Events",
	FilterTrim:          "Removing Redundant Events",
	FilterClearCtrl:     "Clearing Controller Events",
	FilterMaximize:      "Maximizing Volume and Velocity",
	FilterMap:           "Mapping Instruments",
}

// Title returns a human readable name for the filter.
func (id FilterID) Title() string {
	if t, ok := filterTitles[id]; ok {
		return t
	}
	return string(id)
}

// ParseFilterID validates a filter name.
func ParseFilterID(s string) (FilterID, error) {
	id := FilterID(strings.TrimPrefix(strings.TrimSpace(s), "--"))
	if _, ok := filterBuilders[id]; !ok {
		return "", fmt.Errorf("unknown filter %q", s)
	}
	return id, nil
}

// FilterChainConfig holds configuration for the MIDI filter chain
type FilterChainConfig struct {
	// Order is the sequence enabled filters run in
	Order []FilterID

	// Tempo quantizer - no parameters
	QuantizeEnabled bool

	// Redundancy trimmer
	TrimEnabled bool
	TrimProtect ProtectSet // meta events that keep a silent track
	TrimTempo   bool       // de-duplicate tempo events as well

	// Controller eraser
	ClearCtrlEnabled bool
	ClearCtrlSpec    string // comma separated controller numbers, e.g. "7,10"

	// Loudness normaliser
	MaximizeEnabled bool
	NormaliseMode   NormaliseMode

	// Instrument mapper
	MapEnabled bool
	MapSpec    string // e.g. "drum=127,imap=50:49,dmap=60:36,trans=50:-12"
}

// DefaultFilterConfig returns the configuration with every filter disabled
// and the documented defaults for their options.
func DefaultFilterConfig() *FilterChainConfig {
	return &FilterChainConfig{
		Order:         append([]FilterID(nil), DefaultFilterOrder...),
		TrimProtect:   ProtectStructural,
		TrimTempo:     true,
		NormaliseMode: NormaliseGlobal,
	}
}

// Enabled reports whether the filter is switched on.
func (c *FilterChainConfig) Enabled(id FilterID) bool {
	switch id {
	case FilterQuantizeTempo:
		return c.QuantizeEnabled
	case FilterTrim:
		return c.TrimEnabled
	case FilterClearCtrl:
		return c.ClearCtrlEnabled
	case FilterMaximize:
		return c.MaximizeEnabled
	case FilterMap:
		return c.MapEnabled
	}
	return false
}

// EnabledFilters returns the enabled filters in run order.
func (c *FilterChainConfig) EnabledFilters() []FilterID {
	var out []FilterID
	for _, id := range c.Order {
		if c.Enabled(id) {
			out = append(out, id)
		}
	}
	return out
}

// filterFunc applies one configured filter to the whole file.
type filterFunc func(*midi.File) FilterStats

// filterBuilderFunc parses the filter's parameters from config.
// All parsing happens here so a bad parameter string fails before any
// filter touches the file.
type filterBuilderFunc func(*FilterChainConfig) (filterFunc, error)

// filterBuilders maps FilterID to its builder function.
var filterBuilders = map[FilterID]filterBuilderFunc{
	FilterQuantizeTempo: (*FilterChainConfig).buildQuantizeFilter,
	FilterTrim:          (*FilterChainConfig).buildTrimFilter,
	FilterClearCtrl:     (*FilterChainConfig).buildClearCtrlFilter,
	FilterMaximize:      (*FilterChainConfig).buildMaximizeFilter,
	FilterMap:           (*FilterChainConfig).buildMapFilter,
}

func (c *FilterChainConfig) buildQuantizeFilter() (filterFunc, error) {
	return QuantizeTempo, nil
}

func (c *FilterChainConfig) buildTrimFilter() (filterFunc, error) {
	protect, err := ParseProtectSet(string(c.TrimProtect))
	if err != nil {
		return nil, err
	}
	return Trimmer{Protect: protect, Tempo: c.TrimTempo}.Apply, nil
}

func (c *FilterChainConfig) buildClearCtrlFilter() (filterFunc, error) {
	set, err := ParseControllerList(c.ClearCtrlSpec)
	if err != nil {
		return nil, err
	}
	return set.Apply, nil
}

func (c *FilterChainConfig) buildMaximizeFilter() (filterFunc, error) {
	mode, err := ParseNormaliseMode(string(c.NormaliseMode))
	if err != nil {
		return nil, err
	}
	return func(f *midi.File) FilterStats {
		return Maximize(f, mode)
	}, nil
}

func (c *FilterChainConfig) buildMapFilter() (filterFunc, error) {
	m, err := ParseInstrumentMap(c.MapSpec)
	if err != nil {
		return nil, err
	}
	return m.Apply, nil
}

// chainStep is one built filter
type chainStep struct {
	id    FilterID
	apply filterFunc
}

// Chain is a validated, ready to run sequence of filters.
type Chain struct {
	steps []chainStep
}

// BuildChain parses every enabled filter's parameters. It fails on the first
// bad parameter string, before anything has been applied.
func BuildChain(c *FilterChainConfig) (*Chain, error) {
	seen := make(map[FilterID]bool, len(c.Order))
	chain := &Chain{}
	for _, id := range c.Order {
		build, ok := filterBuilders[id]
		if !ok {
			return nil, fmt.Errorf("unknown filter %q in filter order", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("filter %q listed twice in filter order", id)
		}
		seen[id] = true
		if !c.Enabled(id) {
			continue
		}
		apply, err := build(c)
		if err != nil {
			return nil, err
		}
		chain.steps = append(chain.steps, chainStep{id: id, apply: apply})
	}
	for _, id := range DefaultFilterOrder {
		if c.Enabled(id) && !seen[id] {
			return nil, fmt.Errorf("filter %q is enabled but missing from filter order", id)
		}
	}
	return chain, nil
}

// Filters returns the filters the chain will run, in order.
func (ch *Chain) Filters() []FilterID {
	ids := make([]FilterID, len(ch.steps))
	for i, s := range ch.steps {
		ids[i] = s.id
	}
	return ids
}

// Len returns the number of filters in the chain.
func (ch *Chain) Len() int { return len(ch.steps) }

// StepFunc is called before (stats == nil) and after each filter runs.
type StepFunc func(step, total int, id FilterID, stats *FilterStats)

// Apply runs every filter in order on f. Each filter completes before the
// next one starts.
func (ch *Chain) Apply(ctx context.Context, f *midi.File, onStep StepFunc) []FilterStats {
	logger := log.FromContext(ctx)
	results := make([]FilterStats, 0, len(ch.steps))
	for i, s := range ch.steps {
		logger.Info(s.id.Title(), "step", i+1, "of", len(ch.steps))
		if onStep != nil {
			onStep(i+1, len(ch.steps), s.id, nil)
		}

		stats := s.apply(f)
		logger.Debug("filter done",
			"filter", s.id,
			"changed", stats.Changed,
			"removed", stats.Removed,
			"tracks_removed", stats.TracksRemoved,
			"skipped", stats.Skipped,
		)
		if stats.Skipped > 0 {
			logger.Warn("events left untouched", "filter", s.id, "count", stats.Skipped)
		}

		results = append(results, stats)
		if onStep != nil {
			onStep(i+1, len(ch.steps), s.id, &results[len(results)-1])
		}
	}
	return results
}

// FilterStats records what one filter did to the file
type FilterStats struct {
	Filter FilterID

	EventsBefore int
	EventsAfter  int
	TracksBefore int
	TracksAfter  int

	Changed       int // events rewritten in place
	Removed       int // events deleted
	TracksRemoved int // whole tracks deleted
	Skipped       int // events the filter could not interpret
}

func newStats(id FilterID, f *midi.File) FilterStats {
	return FilterStats{
		Filter:       id,
		EventsBefore: f.EventCount(),
		TracksBefore: len(f.Tracks),
	}
}

func (s *FilterStats) finish(f *midi.File) {
	s.EventsAfter = f.EventCount()
	s.TracksAfter = len(f.Tracks)
}
