package processor

import (
	"testing"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// Event builders for synthetic files. All messages go to channel 0 unless
// the test needs otherwise.

func noteOn(ticks uint64, key, velocity uint8) *midi.ChannelMessage {
	return &midi.ChannelMessage{Ticks: ticks, Type: midi.NoteOn, Param1: key, Param2: velocity}
}

func noteOff(ticks uint64, key uint8) *midi.ChannelMessage {
	return &midi.ChannelMessage{Ticks: ticks, Type: midi.NoteOff, Param1: key, Param2: 64}
}

func controller(ticks uint64, cc, value uint8) *midi.ChannelMessage {
	return &midi.ChannelMessage{Ticks: ticks, Type: midi.Controller, Param1: cc, Param2: value}
}

func program(ticks uint64, prog uint8) *midi.ChannelMessage {
	return &midi.ChannelMessage{Ticks: ticks, Type: midi.ProgramChange, Param1: prog}
}

func pitchBend(ticks uint64, lsb, msb uint8) *midi.ChannelMessage {
	return &midi.ChannelMessage{Ticks: ticks, Type: midi.PitchBend, Param1: lsb, Param2: msb}
}

func meta(ticks uint64, kind midi.MetaKind, data ...byte) *midi.MetaEvent {
	return &midi.MetaEvent{Ticks: ticks, Kind: kind, Data: data}
}

func track(events ...midi.Event) *midi.Track {
	t := &midi.Track{}
	t.Append(events...)
	t.EndTicks = t.LastTicks()
	return t
}

func newFile(tracks ...*midi.Track) *midi.File {
	return &midi.File{Format: 1, Tracks: tracks}
}

// channelParams returns Param1/Param2 pairs of the track's channel messages
// of type typ, in order.
func channelParams(t *testing.T, tr *midi.Track, typ midi.MessageType) [][2]uint8 {
	t.Helper()
	var out [][2]uint8
	for _, ev := range tr.Events {
		if m, ok := ev.(*midi.ChannelMessage); ok && m.Type == typ {
			out = append(out, [2]uint8{m.Param1, m.Param2})
		}
	}
	return out
}

// velocities returns the NoteOn velocities on a track
func velocities(t *testing.T, tr *midi.Track) []uint8 {
	t.Helper()
	var out []uint8
	for _, p := range channelParams(t, tr, midi.NoteOn) {
		out = append(out, p[1])
	}
	return out
}

// controllerValues returns the values written to controller cc on a track
func controllerValues(t *testing.T, tr *midi.Track, cc uint8) []uint8 {
	t.Helper()
	var out []uint8
	for _, p := range channelParams(t, tr, midi.Controller) {
		if p[0] == cc {
			out = append(out, p[1])
		}
	}
	return out
}

func equalBytes(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
