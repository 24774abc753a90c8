package midi

import "slices"

// Track is an ordered list of events with non-decreasing absolute ticks.
type Track struct {
	Events []Event

	// EndTicks is the position of the end-of-track marker. The codec never
	// writes it earlier than the last event.
	EndTicks uint64
}

// Len returns the number of events on the track.
func (t *Track) Len() int { return len(t.Events) }

// Append adds events at the end of the track.
func (t *Track) Append(events ...Event) {
	t.Events = append(t.Events, events...)
}

// Replace swaps the event at position i for ev.
func (t *Track) Replace(i int, ev Event) {
	t.Events[i] = ev
}

// Retain keeps the events for which keep returns true, preserving their
// order, and returns how many were dropped. keep sees the events in track
// order, so it may carry state from one call to the next.
func (t *Track) Retain(keep func(Event) bool) int {
	before := len(t.Events)
	t.Events = slices.DeleteFunc(t.Events, func(ev Event) bool {
		return !keep(ev)
	})
	return before - len(t.Events)
}

// LastTicks returns the tick of the final event, or 0 for an empty track.
func (t *Track) LastTicks() uint64 {
	if len(t.Events) == 0 {
		return 0
	}
	return t.Events[len(t.Events)-1].AbsoluteTicks()
}

// File is a whole decoded sequence.
type File struct {
	// Format is the SMF header format (0, 1 or 2).
	Format uint16

	// TimeFormat is the codec's time division value, carried through the
	// filters untouched.
	TimeFormat any

	Tracks []*Track
}

// RetainTracks keeps the tracks for which keep returns true and returns how
// many were dropped.
func (f *File) RetainTracks(keep func(*Track) bool) int {
	before := len(f.Tracks)
	f.Tracks = slices.DeleteFunc(f.Tracks, func(t *Track) bool {
		return !keep(t)
	})
	return before - len(f.Tracks)
}

// EventCount returns the number of events across all tracks.
func (f *File) EventCount() int {
	n := 0
	for _, t := range f.Tracks {
		n += len(t.Events)
	}
	return n
}

// ChannelMessages calls fn for every channel message in track order.
func (f *File) ChannelMessages(fn func(track int, m *ChannelMessage)) {
	for i, t := range f.Tracks {
		for _, ev := range t.Events {
			if m, ok := ev.(*ChannelMessage); ok {
				fn(i, m)
			}
		}
	}
}
