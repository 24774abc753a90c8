package processor

import (
	"fmt"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// ProtectSet names the meta events that keep an otherwise silent track alive.
type ProtectSet string

const (
	// ProtectStructural keeps tracks carrying tempo, time signature or
	// marker events. Conductor tracks often hold all three.
	ProtectStructural ProtectSet = "structural"

	// ProtectTempo keeps only tracks carrying tempo events.
	ProtectTempo ProtectSet = "tempo"
)

// ParseProtectSet validates a protect set name from the CLI or config file.
func ParseProtectSet(s string) (ProtectSet, error) {
	switch ProtectSet(s) {
	case ProtectStructural, ProtectTempo:
		return ProtectSet(s), nil
	}
	return "", fmt.Errorf("unknown trim protect set %q (want %q or %q)", s, ProtectStructural, ProtectTempo)
}

func (p ProtectSet) protects(kind midi.MetaKind) bool {
	switch kind {
	case midi.TempoSetting:
		return true
	case midi.TimeSignature, midi.MarkerText:
		return p != ProtectTempo
	}
	return false
}

// Trimmer removes empty tracks and events that set a value already in effect.
type Trimmer struct {
	Protect ProtectSet
	Tempo   bool // also drop repeated tempo events
}

// Apply prunes tracks, then de-duplicates the events of each survivor.
func (tr Trimmer) Apply(f *midi.File) FilterStats {
	stats := newStats(FilterTrim, f)
	stats.TracksRemoved = tr.PruneTracks(f)
	for _, t := range f.Tracks {
		stats.Removed += tr.Dedup(t)
	}
	stats.finish(f)
	return stats
}

// PruneTracks drops tracks with no notes and no protected meta event.
func (tr Trimmer) PruneTracks(f *midi.File) int {
	return f.RetainTracks(func(t *midi.Track) bool {
		return !tr.Omittable(t)
	})
}

// Omittable reports whether t carries nothing audible or structural.
func (tr Trimmer) Omittable(t *midi.Track) bool {
	for _, ev := range t.Events {
		switch e := ev.(type) {
		case *midi.ChannelMessage:
			if e.IsNote() {
				return false
			}
		case *midi.MetaEvent:
			if tr.Protect.protects(e.Kind) {
				return false
			}
		}
	}
	return true
}

// unset is the initial register value; it never equals a real data value.
const unset = -1

// dedupState holds the last value written to each signal on a track.
type dedupState struct {
	program     int
	bendLSB     int
	bendMSB     int
	tempo       int64
	controllers [128]int
}

func newDedupState() *dedupState {
	s := &dedupState{program: unset, bendLSB: unset, bendMSB: unset, tempo: unset}
	for i := range s.controllers {
		s.controllers[i] = unset
	}
	return s
}

// Dedup drops events that would set a program, pitch bend, controller or
// (with Tempo) tempo to the value it already holds. A dropped event never
// updates the registers. Returns the number of events removed.
func (tr Trimmer) Dedup(t *midi.Track) int {
	s := newDedupState()
	return t.Retain(func(ev midi.Event) bool {
		switch e := ev.(type) {
		case *midi.ChannelMessage:
			return s.keepMessage(e)
		case *midi.MetaEvent:
			if !tr.Tempo {
				return true
			}
			us, ok := e.Tempo()
			if !ok {
				return true
			}
			if s.tempo == int64(us) {
				return false
			}
			s.tempo = int64(us)
		}
		return true
	})
}

func (s *dedupState) keepMessage(m *midi.ChannelMessage) bool {
	p1, p2 := int(m.Param1), int(m.Param2)
	switch m.Type {
	case midi.ProgramChange:
		if s.program == p1 {
			return false
		}
		s.program = p1
	case midi.PitchBend:
		if s.bendLSB == p1 && s.bendMSB == p2 {
			return false
		}
		s.bendLSB, s.bendMSB = p1, p2
	case midi.Controller:
		cc := m.Param1 & midi.MaxValue
		if s.controllers[cc] == p2 {
			return false
		}
		s.controllers[cc] = p2
	}
	return true
}
