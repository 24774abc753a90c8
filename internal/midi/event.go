// Package midi is the in-memory event model the filters read and rewrite.
// Events carry absolute tick positions; the codec converts to and from
// delta-timed tracks.
package midi

import "fmt"

// MessageType is the high nibble of a channel message status byte
type MessageType uint8

// Channel message types
const (
	NoteOff           MessageType = 0x8
	NoteOn            MessageType = 0x9
	PolyAftertouch    MessageType = 0xA
	Controller        MessageType = 0xB
	ProgramChange     MessageType = 0xC
	ChannelAftertouch MessageType = 0xD
	PitchBend         MessageType = 0xE
)

func (t MessageType) String() string {
	switch t {
	case NoteOff:
		return "NoteOff"
	case NoteOn:
		return "NoteOn"
	case PolyAftertouch:
		return "PolyAftertouch"
	case Controller:
		return "Controller"
	case ProgramChange:
		return "ProgramChange"
	case ChannelAftertouch:
		return "ChannelAftertouch"
	case PitchBend:
		return "PitchBend"
	default:
		return fmt.Sprintf("MessageType(0x%X)", uint8(t))
	}
}

// DataLen returns the number of data bytes that follow the status byte.
func (t MessageType) DataLen() int {
	if t == ProgramChange || t == ChannelAftertouch {
		return 1
	}
	return 2
}

// MetaKind is the type byte of a meta event
type MetaKind uint8

// Meta event kinds the filters care about. Any other type byte is carried
// through as-is.
const (
	MetaText      MetaKind = 0x01
	MetaTrackName MetaKind = 0x03
	MarkerText    MetaKind = 0x06
	EndOfTrack    MetaKind = 0x2F
	TempoSetting  MetaKind = 0x51
	TimeSignature MetaKind = 0x58
	KeySignature  MetaKind = 0x59
)

// MaxValue is the largest value a 7-bit data byte can hold.
const MaxValue = 127

// Event is one timed entry on a track. The set of implementations is closed:
// *ChannelMessage, *MetaEvent and *SysExEvent.
type Event interface {
	AbsoluteTicks() uint64
	isEvent()
}

// ChannelMessage is a voice message addressed to one of 16 channels.
// For notes Param1 is the key and Param2 the velocity; for controllers
// Param1 is the controller number and Param2 its value; for program changes
// Param1 is the program. Pitch bend splits a 14-bit value LSB-first across
// Param1 and Param2.
type ChannelMessage struct {
	Ticks   uint64
	Type    MessageType
	Channel uint8
	Param1  uint8
	Param2  uint8
}

func (m *ChannelMessage) AbsoluteTicks() uint64 { return m.Ticks }
func (*ChannelMessage) isEvent()                {}

// IsController reports whether m is a controller message for controller number cc.
func (m *ChannelMessage) IsController(cc uint8) bool {
	return m.Type == Controller && m.Param1 == cc
}

// IsNote reports whether m is a NoteOn or NoteOff.
func (m *ChannelMessage) IsNote() bool {
	return m.Type == NoteOn || m.Type == NoteOff
}

// MetaEvent is a non-playable event. Data holds the payload without the
// type byte or length prefix.
type MetaEvent struct {
	Ticks uint64
	Kind  MetaKind
	Data  []byte
}

func (m *MetaEvent) AbsoluteTicks() uint64 { return m.Ticks }
func (*MetaEvent) isEvent()                {}

// SysExEvent is an opaque system exclusive message, including its status
// byte. Filters never touch it.
type SysExEvent struct {
	Ticks uint64
	Data  []byte
}

func (m *SysExEvent) AbsoluteTicks() uint64 { return m.Ticks }
func (*SysExEvent) isEvent()                {}
