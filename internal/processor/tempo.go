package processor

import (
	"math"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// QuantizeTempo rounds every tempo event to the nearest whole BPM. The event
// is replaced in place with a fresh 3-byte payload at the same tick.
// Tempo events with a malformed payload or a zero value are skipped.
func QuantizeTempo(f *midi.File) FilterStats {
	stats := newStats(FilterQuantizeTempo, f)
	for _, t := range f.Tracks {
		for i, ev := range t.Events {
			meta, ok := ev.(*midi.MetaEvent)
			if !ok || meta.Kind != midi.TempoSetting {
				continue
			}
			us, ok := meta.Tempo()
			if !ok || us == 0 {
				stats.Skipped++
				continue
			}
			if q := QuantizeMicroseconds(us); q != us {
				t.Replace(i, midi.NewTempo(meta.Ticks, q))
				stats.Changed++
			}
		}
	}
	stats.finish(f)
	return stats
}

// QuantizeMicroseconds converts a microseconds-per-beat value to BPM, rounds
// it half away from zero, and converts back. us must be non-zero.
func QuantizeMicroseconds(us uint32) uint32 {
	bpm := math.Round(midi.BPM(us))
	return uint32(math.Round(midi.MicrosecondsPerMinute / bpm))
}
