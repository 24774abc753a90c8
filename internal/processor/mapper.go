package processor

import (
	"strconv"
	"strings"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// Mapping keys accepted by ParseInstrumentMap
const (
	mapKeyDrum       = "drum"
	mapKeyInstrument = "imap"
	mapKeyDrumKey    = "dmap"
	mapKeyTranspose  = "trans"
)

// noProgram marks a track on which no ProgramChange has been seen yet.
// It is distinct from program 0, which is mapped like any other program.
const noProgram = -1

// InstrumentMap is the parsed form of a --map string. Tables are indexed by
// program or key number; unmapped entries pass through unchanged.
type InstrumentMap struct {
	Programs  [128]uint8 // ProgramChange value rewrites
	DrumKeys  [128]uint8 // key rewrites under a drum program
	Transpose [128]int8  // semitone shift per program
	Drum      [128]bool  // programs whose notes are drum keys
}

// IdentityInstrumentMap returns a map that changes nothing.
func IdentityInstrumentMap() *InstrumentMap {
	m := &InstrumentMap{}
	for i := 0; i < 128; i++ {
		m.Programs[i] = uint8(i)
		m.DrumKeys[i] = uint8(i)
	}
	return m
}

// ParseInstrumentMap parses a comma separated list of assignments:
//
//	drum=N          program N plays drums
//	imap=FROM:TO    rewrite program FROM to TO
//	dmap=FROM:TO    rewrite drum key FROM to TO
//	trans=PROG:N    shift notes played by PROG by N semitones
//
// Any bad entry rejects the whole string.
func ParseInstrumentMap(spec string) (*InstrumentMap, error) {
	m := IdentityInstrumentMap()
	for _, entry := range strings.Split(spec, ",") {
		key, value, err := splitPair(entry, "=")
		if err != nil {
			return nil, configError(FilterMap, ErrMalformedConfig, entry, "expected key=value")
		}

		switch key {
		case mapKeyDrum:
			n, err := parseRanged(FilterMap, entry, value, "drum program", 0, 127)
			if err != nil {
				return nil, err
			}
			m.Drum[n] = true

		case mapKeyInstrument, mapKeyDrumKey:
			what := "instrument"
			if key == mapKeyDrumKey {
				what = "drum key"
			}
			from, to, err := parseRangedPair(entry, value, what, 0, 127)
			if err != nil {
				return nil, err
			}
			if key == mapKeyInstrument {
				m.Programs[from] = uint8(to)
			} else {
				m.DrumKeys[from] = uint8(to)
			}

		case mapKeyTranspose:
			prog, shift, err := splitPair(value, ":")
			if err != nil {
				return nil, configError(FilterMap, ErrMalformedConfig, entry, "expected trans=PROGRAM:SHIFT")
			}
			p, err := parseRanged(FilterMap, entry, prog, "transpose program", 0, 127)
			if err != nil {
				return nil, err
			}
			s, err := parseRanged(FilterMap, entry, shift, "transpose shift", -128, 127)
			if err != nil {
				return nil, err
			}
			m.Transpose[p] = int8(s)

		default:
			return nil, configError(FilterMap, ErrUnknownMappingKey, entry,
				"unknown mapping type %q (want drum, imap, dmap or trans)", key)
		}
	}
	return m, nil
}

// parseRangedPair parses FROM:TO with both ends in [lo, hi].
func parseRangedPair(entry, value, what string, lo, hi int) (int, int, error) {
	a, b, err := splitPair(value, ":")
	if err != nil {
		return 0, 0, configError(FilterMap, ErrMalformedConfig, entry, "expected %s map FROM:TO", what)
	}
	from, err := parseRanged(FilterMap, entry, a, what+" 'from'", lo, hi)
	if err != nil {
		return 0, 0, err
	}
	to, err := parseRanged(FilterMap, entry, b, what+" 'to'", lo, hi)
	if err != nil {
		return 0, 0, err
	}
	return from, to, nil
}

// splitPair splits s on sep into exactly two parts.
func splitPair(s, sep string) (string, string, error) {
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return "", "", ErrMalformedConfig
	}
	return parts[0], parts[1], nil
}

// parseRanged parses a decimal integer and checks it lies in [lo, hi].
func parseRanged(filter FilterID, entry, s, what string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, configError(filter, ErrMalformedConfig, entry, "%s is not a number: %q", what, s)
	}
	if n < lo || n > hi {
		return 0, configError(filter, ErrOutOfRange, entry, "%s out of range [%d, %d]: %d", what, lo, hi, n)
	}
	return n, nil
}

// Apply rewrites program changes and note keys on every track. The active
// program is tracked per track from the unmapped ProgramChange value.
func (m *InstrumentMap) Apply(f *midi.File) FilterStats {
	stats := newStats(FilterMap, f)
	for _, t := range f.Tracks {
		active := noProgram
		for _, ev := range t.Events {
			cm, ok := ev.(*midi.ChannelMessage)
			if !ok {
				continue
			}

			switch {
			case cm.Type == midi.ProgramChange:
				active = int(cm.Param1 & midi.MaxValue)
				if to := m.Programs[active]; to != cm.Param1 {
					cm.Param1 = to
					stats.Changed++
				}
			case cm.IsNote():
				if active == noProgram {
					continue
				}
				if key := m.MapKey(active, cm.Param1); key != cm.Param1 {
					cm.Param1 = key
					stats.Changed++
				}
			}
		}
	}
	stats.finish(f)
	return stats
}

// MapKey returns the key a note gets when played under program. Drum
// programs go through the drum key table only; all others are transposed.
func (m *InstrumentMap) MapKey(program int, key uint8) uint8 {
	if m.Drum[program] {
		return m.DrumKeys[key&midi.MaxValue]
	}
	return transposeKey(key, m.Transpose[program])
}

// transposeKey adds shift with 8-bit wraparound, then keeps the low 7 bits
// so the result is a valid data byte. Key 2 shifted by -12 becomes 118.
func transposeKey(key uint8, shift int8) uint8 {
	return (key + uint8(shift)) & midi.MaxValue
}
