package midi

import (
	"testing"
)

func note(ticks uint64, key uint8) *ChannelMessage {
	return &ChannelMessage{Ticks: ticks, Type: NoteOn, Param1: key, Param2: 100}
}

func TestTrackRetain(t *testing.T) {
	tr := &Track{}
	tr.Append(note(0, 60), note(10, 61), note(20, 62), note(30, 63))

	// keep sees events in order, so it can carry state
	var seen []uint8
	removed := tr.Retain(func(ev Event) bool {
		m := ev.(*ChannelMessage)
		seen = append(seen, m.Param1)
		return m.Param1%2 == 0
	})

	if removed != 2 {
		t.Errorf("Retain() = %d, want 2", removed)
	}
	if want := []uint8{60, 61, 62, 63}; len(seen) != len(want) || seen[0] != 60 || seen[3] != 63 {
		t.Errorf("keep saw %v, want %v", seen, want)
	}
	if tr.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tr.Len())
	}
	if got := tr.Events[1].(*ChannelMessage).Param1; got != 62 {
		t.Errorf("second survivor = %d, want 62", got)
	}
	if tr.LastTicks() != 20 {
		t.Errorf("LastTicks() = %d, want 20", tr.LastTicks())
	}
}

func TestTrackReplace(t *testing.T) {
	tr := &Track{}
	tr.Append(NewTempo(0, 498339))
	tr.Replace(0, NewTempo(0, 500000))
	if us, _ := tr.Events[0].(*MetaEvent).Tempo(); us != 500000 {
		t.Errorf("tempo = %d, want 500000", us)
	}
}

func TestEmptyTrackLastTicks(t *testing.T) {
	if got := (&Track{}).LastTicks(); got != 0 {
		t.Errorf("LastTicks() = %d, want 0", got)
	}
}

func TestFileRetainTracks(t *testing.T) {
	empty := &Track{}
	full := &Track{}
	full.Append(note(0, 60))
	f := &File{Tracks: []*Track{empty, full, empty}}

	removed := f.RetainTracks(func(t *Track) bool { return t.Len() > 0 })
	if removed != 2 {
		t.Errorf("RetainTracks() = %d, want 2", removed)
	}
	if len(f.Tracks) != 1 || f.Tracks[0] != full {
		t.Errorf("surviving tracks = %v, want only the non-empty one", f.Tracks)
	}
	if f.EventCount() != 1 {
		t.Errorf("EventCount() = %d, want 1", f.EventCount())
	}
}

func TestTempo(t *testing.T) {
	tests := []struct {
		name   string
		ev     *MetaEvent
		wantUS uint32
		wantOK bool
	}{
		{"120 bpm", NewTempo(0, 500000), 500000, true},
		{"max", NewTempo(0, MaxTempo), MaxTempo, true},
		{"short payload", &MetaEvent{Kind: TempoSetting, Data: []byte{1, 2}}, 0, false},
		{"long payload", &MetaEvent{Kind: TempoSetting, Data: []byte{1, 2, 3, 4}}, 0, false},
		{"not a tempo", &MetaEvent{Kind: MarkerText, Data: []byte{1, 2, 3}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			us, ok := tt.ev.Tempo()
			if us != tt.wantUS || ok != tt.wantOK {
				t.Errorf("Tempo() = %d, %v, want %d, %v", us, ok, tt.wantUS, tt.wantOK)
			}
		})
	}
}

func TestBPM(t *testing.T) {
	if got := BPM(500000); got != 120 {
		t.Errorf("BPM(500000) = %v, want 120", got)
	}
}

func TestMessageTypeDataLen(t *testing.T) {
	tests := []struct {
		typ  MessageType
		want int
	}{
		{NoteOff, 2},
		{NoteOn, 2},
		{PolyAftertouch, 2},
		{Controller, 2},
		{ProgramChange, 1},
		{ChannelAftertouch, 1},
		{PitchBend, 2},
	}

	for _, tt := range tests {
		if got := tt.typ.DataLen(); got != tt.want {
			t.Errorf("%s.DataLen() = %d, want %d", tt.typ, got, tt.want)
		}
	}
}

func TestTakeCensus(t *testing.T) {
	conductor := &Track{}
	conductor.Append(NewTempo(0, 500000), &MetaEvent{Kind: TimeSignature, Data: []byte{4, 2, 24, 8}})
	music := &Track{}
	music.Append(
		&ChannelMessage{Type: ProgramChange, Param1: 3},
		&ChannelMessage{Type: Controller, Param1: 7, Param2: 100},
		note(0, 60),
		&ChannelMessage{Type: NoteOff, Param1: 60},
		&ChannelMessage{Type: PitchBend, Param2: 64},
		&ChannelMessage{Type: ChannelAftertouch, Param1: 10},
		&SysExEvent{Data: []byte{0xF0, 0x7E, 0xF7}},
	)

	got := TakeCensus(&File{Tracks: []*Track{conductor, music}})
	want := Census{
		Tracks:      2,
		Events:      9,
		Notes:       2,
		Controllers: 1,
		Programs:    1,
		PitchBends:  1,
		Tempos:      1,
		OtherMeta:   1,
		OtherVoice:  1,
		SysEx:       1,
	}
	if got != want {
		t.Errorf("TakeCensus() = %+v, want %+v", got, want)
	}
}
