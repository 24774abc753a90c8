package codec

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Southclaws/fault/ftag"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// fixtureSMF builds a two-track file with the gomidi writer
func fixtureSMF(t *testing.T) []byte {
	t.Helper()

	var conductor smf.Track
	conductor.Add(0, smf.MetaTempo(120))
	conductor.Close(1920)

	var music smf.Track
	music.Add(0, gomidi.ProgramChange(1, 5))
	music.Add(0, gomidi.ControlChange(1, 7, 100))
	music.Add(0, gomidi.NoteOn(1, 60, 90))
	music.Add(480, gomidi.NoteOn(1, 60, 0))
	music.Add(0, gomidi.Pitchbend(1, 0))
	music.Close(0)

	s := smf.NewSMF1()
	s.TimeFormat = smf.MetricTicks(480)
	if err := s.Add(conductor); err != nil {
		t.Fatalf("add conductor: %v", err)
	}
	if err := s.Add(music); err != nil {
		t.Fatalf("add music: %v", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	f, err := Decode(fixtureSMF(t))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if f.Format != 1 {
		t.Errorf("Format = %d, want 1", f.Format)
	}
	if tf, ok := f.TimeFormat.(smf.MetricTicks); !ok || tf != 480 {
		t.Errorf("TimeFormat = %v, want 480 metric ticks", f.TimeFormat)
	}
	if len(f.Tracks) != 2 {
		t.Fatalf("len(Tracks) = %d, want 2", len(f.Tracks))
	}

	conductor := f.Tracks[0]
	if conductor.Len() != 1 {
		t.Fatalf("conductor has %d events, want 1 (end of track is not an event)", conductor.Len())
	}
	tempo, ok := conductor.Events[0].(*midi.MetaEvent)
	if !ok {
		t.Fatalf("conductor event = %T, want *midi.MetaEvent", conductor.Events[0])
	}
	if us, ok := tempo.Tempo(); !ok || us != 500000 {
		t.Errorf("tempo = %d (ok=%v), want 500000", us, ok)
	}
	if conductor.EndTicks != 1920 {
		t.Errorf("conductor EndTicks = %d, want 1920", conductor.EndTicks)
	}

	music := f.Tracks[1]
	if music.Len() != 5 {
		t.Fatalf("music has %d events, want 5", music.Len())
	}
	off, ok := music.Events[3].(*midi.ChannelMessage)
	if !ok {
		t.Fatalf("event 3 = %T, want *midi.ChannelMessage", music.Events[3])
	}
	// velocity 0 NoteOn is kept as written
	if off.Type != midi.NoteOn || off.Param2 != 0 || off.Ticks != 480 || off.Channel != 1 {
		t.Errorf("event 3 = %+v, want NoteOn ch1 key 60 vel 0 at 480", off)
	}
	bend := music.Events[4].(*midi.ChannelMessage)
	if bend.Type != midi.PitchBend || bend.Param1 != 0 || bend.Param2 != 64 {
		t.Errorf("pitch bend = %+v, want centre (0, 64)", bend)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	in, err := Decode(fixtureSMF(t))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	out, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode(Encode()) error = %v", err)
	}

	if midi.TakeCensus(in) != midi.TakeCensus(out) {
		t.Errorf("census changed: %+v → %+v", midi.TakeCensus(in), midi.TakeCensus(out))
	}
	for ti := range in.Tracks {
		a, b := in.Tracks[ti], out.Tracks[ti]
		if a.EndTicks != b.EndTicks {
			t.Errorf("track %d EndTicks %d → %d", ti, a.EndTicks, b.EndTicks)
		}
		for ei := range a.Events {
			if !bytes.Equal(encodeEvent(a.Events[ei]), encodeEvent(b.Events[ei])) {
				t.Errorf("track %d event %d differs after round trip", ti, ei)
			}
			if a.Events[ei].AbsoluteTicks() != b.Events[ei].AbsoluteTicks() {
				t.Errorf("track %d event %d moved from %d to %d", ti, ei,
					a.Events[ei].AbsoluteTicks(), b.Events[ei].AbsoluteTicks())
			}
		}
	}
}

func TestEncodeExtendsEndTicks(t *testing.T) {
	tr := &midi.Track{EndTicks: 10}
	tr.Append(&midi.ChannelMessage{Ticks: 100, Type: midi.NoteOn, Param1: 60, Param2: 90})
	data, err := Encode(&midi.File{Tracks: []*midi.Track{tr}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := f.Tracks[0].EndTicks; got != 100 {
		t.Errorf("EndTicks = %d, want 100", got)
	}
}

func TestEncodeNoTracks(t *testing.T) {
	data, err := Encode(&midi.File{})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	f, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(f.Tracks) != 1 {
		t.Fatalf("decoded %d tracks, want 1", len(f.Tracks))
	}
	if n := f.EventCount(); n != 0 {
		t.Errorf("EventCount() = %d, want 0", n)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("not a midi file"))
	if err == nil {
		t.Fatal("Decode() should fail on non-SMF input")
	}
	if tag := ftag.Get(err); tag != ftag.InvalidArgument {
		t.Errorf("tag = %q, want %q", tag, ftag.InvalidArgument)
	}
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.mid"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want os.ErrNotExist", err)
	}
	if tag := ftag.Get(err); tag != ftag.NotFound {
		t.Errorf("tag = %q, want %q", tag, ftag.NotFound)
	}
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mid")
	if err := os.WriteFile(path, []byte("old contents"), 0644); err != nil {
		t.Fatal(err)
	}
	tr := &midi.Track{}
	tr.Append(midi.NewTempo(0, 500000))
	if err := WriteFile(path, &midi.File{Tracks: []*midi.Track{tr}}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := ReadFile(path); err != nil {
		t.Errorf("ReadFile() after overwrite error = %v", err)
	}
}

func TestVarLen(t *testing.T) {
	tests := []struct {
		v    uint32
		want []byte
	}{
		{0, []byte{0x00}},
		{0x7F, []byte{0x7F}},
		{0x80, []byte{0x81, 0x00}},
		{0x3FFF, []byte{0xFF, 0x7F}},
		{0x0FFFFFFF, []byte{0xFF, 0xFF, 0xFF, 0x7F}},
	}

	for _, tt := range tests {
		got := appendVarLen(nil, tt.v)
		if !bytes.Equal(got, tt.want) {
			t.Errorf("appendVarLen(%#x) = % X, want % X", tt.v, got, tt.want)
		}
		v, n, err := readVarLen(got)
		if err != nil || v != tt.v || n != len(tt.want) {
			t.Errorf("readVarLen(% X) = %#x, %d, %v", got, v, n, err)
		}
	}
}

func TestDecodeMessageTruncated(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
	}{
		{"empty", nil},
		{"note missing velocity", []byte{0x90, 60}},
		{"meta length past end", []byte{0xFF, 0x51, 0x03, 0x07}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeMessage(0, tt.raw); !errors.Is(err, errTruncated) {
				t.Errorf("decodeMessage(% X) error = %v, want errTruncated", tt.raw, err)
			}
		})
	}
}
