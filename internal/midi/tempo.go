package midi

// TempoDataLen is the payload size of a tempo meta event.
const TempoDataLen = 3

// MicrosecondsPerMinute converts between BPM and microseconds per beat.
const MicrosecondsPerMinute = 60_000_000

// MaxTempo is the largest microseconds-per-beat value a tempo event can hold.
const MaxTempo = 1<<24 - 1

// NewTempo builds a tempo meta event. usPerBeat is truncated to 24 bits.
func NewTempo(ticks uint64, usPerBeat uint32) *MetaEvent {
	return &MetaEvent{
		Ticks: ticks,
		Kind:  TempoSetting,
		Data:  []byte{byte(usPerBeat >> 16), byte(usPerBeat >> 8), byte(usPerBeat)},
	}
}

// Tempo returns the microseconds-per-beat value of a tempo event. ok is false
// for other meta kinds and for tempo events whose payload is not 3 bytes.
func (m *MetaEvent) Tempo() (usPerBeat uint32, ok bool) {
	if m.Kind != TempoSetting || len(m.Data) != TempoDataLen {
		return 0, false
	}
	return uint32(m.Data[0])<<16 | uint32(m.Data[1])<<8 | uint32(m.Data[2]), true
}

// BPM converts microseconds per beat to beats per minute.
func BPM(usPerBeat uint32) float64 {
	return MicrosecondsPerMinute / float64(usPerBeat)
}
