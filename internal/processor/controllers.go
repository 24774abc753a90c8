package processor

import (
	"strconv"
	"strings"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// ControllerSet marks controller numbers for removal.
type ControllerSet [128]bool

// ParseControllerList parses a comma separated list of controller numbers.
func ParseControllerList(spec string) (*ControllerSet, error) {
	var set ControllerSet
	for _, entry := range strings.Split(spec, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(entry))
		if err != nil {
			return nil, configError(FilterClearCtrl, ErrInvalidController, entry, "controller is not a number")
		}
		if n < 0 || n > midi.MaxValue {
			return nil, configError(FilterClearCtrl, ErrOutOfRange, entry, "controller number out of range [0, 127]: %d", n)
		}
		set[n] = true
	}
	return &set, nil
}

// Numbers lists the marked controllers in ascending order.
func (s *ControllerSet) Numbers() []int {
	var out []int
	for n, on := range s {
		if on {
			out = append(out, n)
		}
	}
	return out
}

// Apply deletes every controller event whose number is in the set.
func (s *ControllerSet) Apply(f *midi.File) FilterStats {
	stats := newStats(FilterClearCtrl, f)
	for _, t := range f.Tracks {
		stats.Removed += t.Retain(func(ev midi.Event) bool {
			m, ok := ev.(*midi.ChannelMessage)
			return !ok || m.Type != midi.Controller || !s[m.Param1&midi.MaxValue]
		})
	}
	stats.finish(f)
	return stats
}
