package codec

import (
	"errors"
	"fmt"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// Status bytes outside the channel message range
const (
	statusSysEx       = 0xF0
	statusSysExEscape = 0xF7
	statusMeta        = 0xFF
)

var errTruncated = errors.New("truncated message")

// decodeMessage converts one raw smf message into an event. It returns a nil
// event for end-of-track. Channel data bytes are taken verbatim, so a NoteOn
// with velocity 0 stays a NoteOn and NoteOff release velocity survives.
func decodeMessage(ticks uint64, raw []byte) (midi.Event, error) {
	if len(raw) == 0 {
		return nil, errTruncated
	}
	status := raw[0]
	switch {
	case status == statusMeta:
		return decodeMeta(ticks, raw)

	case status == statusSysEx || status == statusSysExEscape:
		return &midi.SysExEvent{Ticks: ticks, Data: append([]byte(nil), raw...)}, nil

	case status >= 0x80 && status < statusSysEx:
		m := &midi.ChannelMessage{
			Ticks:   ticks,
			Type:    midi.MessageType(status >> 4),
			Channel: status & 0x0F,
		}
		if len(raw) < 1+m.Type.DataLen() {
			return nil, fmt.Errorf("%s: %w", m.Type, errTruncated)
		}
		m.Param1 = raw[1] & midi.MaxValue
		if m.Type.DataLen() == 2 {
			m.Param2 = raw[2] & midi.MaxValue
		}
		return m, nil
	}
	return nil, fmt.Errorf("unexpected status byte 0x%02X", status)
}

// decodeMeta splits FF <type> <vlq length> <data>.
func decodeMeta(ticks uint64, raw []byte) (midi.Event, error) {
	if len(raw) < 3 {
		return nil, fmt.Errorf("meta event: %w", errTruncated)
	}
	kind := midi.MetaKind(raw[1])
	length, n, err := readVarLen(raw[2:])
	if err != nil {
		return nil, fmt.Errorf("meta event 0x%02X: %w", uint8(kind), err)
	}
	data := raw[2+n:]
	if uint64(len(data)) < uint64(length) {
		return nil, fmt.Errorf("meta event 0x%02X: %w", uint8(kind), errTruncated)
	}
	if kind == midi.EndOfTrack {
		return nil, nil
	}
	return &midi.MetaEvent{
		Ticks: ticks,
		Kind:  kind,
		Data:  append([]byte(nil), data[:length]...),
	}, nil
}

// encodeEvent converts an event back into raw smf message bytes.
func encodeEvent(ev midi.Event) []byte {
	switch e := ev.(type) {
	case *midi.ChannelMessage:
		status := byte(e.Type)<<4 | e.Channel&0x0F
		if e.Type.DataLen() == 1 {
			return []byte{status, e.Param1 & midi.MaxValue}
		}
		return []byte{status, e.Param1 & midi.MaxValue, e.Param2 & midi.MaxValue}
	case *midi.MetaEvent:
		out := []byte{statusMeta, byte(e.Kind)}
		out = appendVarLen(out, uint32(len(e.Data)))
		return append(out, e.Data...)
	case *midi.SysExEvent:
		return append([]byte(nil), e.Data...)
	}
	panic(fmt.Sprintf("codec: unknown event type %T", ev))
}

// readVarLen reads an SMF variable length quantity, returning the value and
// the number of bytes consumed.
func readVarLen(b []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < len(b) && i < 4; i++ {
		v = v<<7 | uint32(b[i]&0x7F)
		if b[i]&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, fmt.Errorf("bad variable length quantity: %w", errTruncated)
}

// appendVarLen appends v as an SMF variable length quantity.
func appendVarLen(out []byte, v uint32) []byte {
	var buf [4]byte
	i := len(buf) - 1
	buf[i] = byte(v & 0x7F)
	for v >>= 7; v > 0; v >>= 7 {
		i--
		buf[i] = byte(v&0x7F) | 0x80
	}
	return append(out, buf[i:]...)
}
