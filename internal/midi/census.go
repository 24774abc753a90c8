package midi

// Census counts the events of a file by kind. Reports compare a census of
// the input with one of the output.
type Census struct {
	Tracks      int
	Events      int
	Notes       int // NoteOn and NoteOff
	Controllers int
	Programs    int
	PitchBends  int
	Tempos      int
	OtherMeta   int
	OtherVoice  int // aftertouch
	SysEx       int
}

// TakeCensus counts every event in f.
func TakeCensus(f *File) Census {
	c := Census{Tracks: len(f.Tracks)}
	for _, t := range f.Tracks {
		for _, ev := range t.Events {
			c.Events++
			switch e := ev.(type) {
			case *ChannelMessage:
				switch e.Type {
				case NoteOn, NoteOff:
					c.Notes++
				case Controller:
					c.Controllers++
				case ProgramChange:
					c.Programs++
				case PitchBend:
					c.PitchBends++
				default:
					c.OtherVoice++
				}
			case *MetaEvent:
				if e.Kind == TempoSetting {
					c.Tempos++
				} else {
					c.OtherMeta++
				}
			case *SysExEvent:
				c.SysEx++
			}
		}
	}
	return c
}
