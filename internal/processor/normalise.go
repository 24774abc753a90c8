package processor

import (
	"fmt"
	"math"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// NormaliseMode selects how the maximize filter finds its peaks.
type NormaliseMode string

const (
	// NormaliseGlobal scales expression, volume and velocity independently,
	// each against its peak across the whole file.
	NormaliseGlobal NormaliseMode = "global"

	// NormalisePerTrack boosts expression to full scale per track and
	// attenuates that track's volume by the same factor, so the product
	// stays roughly constant. Velocity is left alone.
	NormalisePerTrack NormaliseMode = "track"
)

// Controller numbers touched by the normaliser
const (
	CCVolume     uint8 = 7
	CCExpression uint8 = 11
)

// ParseNormaliseMode validates a mode name from the CLI or config file.
func ParseNormaliseMode(s string) (NormaliseMode, error) {
	switch NormaliseMode(s) {
	case NormaliseGlobal, NormalisePerTrack:
		return NormaliseMode(s), nil
	}
	return "", fmt.Errorf("unknown normalise mode %q (want %q or %q)", s, NormaliseGlobal, NormalisePerTrack)
}

// Peaks holds the largest strictly positive value seen for each signal.
// Zero means the signal never appeared with a positive value.
type Peaks struct {
	Expression uint8
	Volume     uint8
	Velocity   uint8
}

// MeasurePeaks scans the whole file for expression, volume and NoteOn
// velocity peaks.
func MeasurePeaks(f *midi.File) Peaks {
	var p Peaks
	f.ChannelMessages(func(_ int, m *midi.ChannelMessage) {
		if m.Param2 == 0 {
			return
		}
		switch {
		case m.IsController(CCExpression):
			p.Expression = max(p.Expression, m.Param2)
		case m.IsController(CCVolume):
			p.Volume = max(p.Volume, m.Param2)
		case m.Type == midi.NoteOn:
			p.Velocity = max(p.Velocity, m.Param2)
		}
	})
	return p
}

// Maximize raises expression, volume and velocity so each peak reaches 127,
// keeping the proportions between values of the same signal.
func Maximize(f *midi.File, mode NormaliseMode) FilterStats {
	stats := newStats(FilterMaximize, f)
	if mode == NormalisePerTrack {
		stats.Changed = maximizeTracks(f)
	} else {
		stats.Changed = maximizeGlobal(f)
	}
	stats.finish(f)
	return stats
}

func maximizeGlobal(f *midi.File) int {
	peaks := MeasurePeaks(f)
	changed := 0
	f.ChannelMessages(func(_ int, m *midi.ChannelMessage) {
		var peak uint8
		switch {
		case m.IsController(CCExpression):
			peak = peaks.Expression
		case m.IsController(CCVolume):
			peak = peaks.Volume
		case m.Type == midi.NoteOn && m.Param2 > 0:
			// velocity 0 is a note-off and must stay one
			peak = peaks.Velocity
		}
		if peak == 0 {
			return
		}
		if v := scaleLevel(m.Param2, midi.MaxValue/float64(peak)); v != m.Param2 {
			m.Param2 = v
			changed++
		}
	})
	return changed
}

func maximizeTracks(f *midi.File) int {
	changed := 0
	for _, t := range f.Tracks {
		var peak uint8
		for _, ev := range t.Events {
			if m, ok := ev.(*midi.ChannelMessage); ok && m.IsController(CCExpression) {
				peak = max(peak, m.Param2)
			}
		}
		if peak == 0 {
			continue
		}

		multiplier := midi.MaxValue / float64(peak)
		for _, ev := range t.Events {
			m, ok := ev.(*midi.ChannelMessage)
			if !ok {
				continue
			}
			v := m.Param2
			switch {
			case m.IsController(CCExpression):
				v = scaleLevel(m.Param2, multiplier)
			case m.IsController(CCVolume):
				v = clampLevel(float64(m.Param2) / multiplier)
			}
			if v != m.Param2 {
				m.Param2 = v
				changed++
			}
		}
	}
	return changed
}

// scaleLevel multiplies a 7-bit level, rounding half away from zero and
// clamping to [0, 127].
func scaleLevel(value uint8, multiplier float64) uint8 {
	return clampLevel(multiplier * float64(value))
}

func clampLevel(v float64) uint8 {
	v = math.Round(v)
	return uint8(min(max(v, 0), midi.MaxValue))
}
