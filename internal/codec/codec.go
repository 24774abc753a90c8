// Package codec converts Standard MIDI Files to and from the event model
// using gomidi's smf reader and writer.
package codec

import (
	"bytes"
	"fmt"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/linuxmatters/midifilter/internal/midi"
)

// ReadFile decodes the SMF at path.
func ReadFile(path string) (*midi.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.NotFound),
			fmsg.WithDesc("read input", fmt.Sprintf("Could not read %s", path)))
	}
	f, err := Decode(data)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With(path))
	}
	return f, nil
}

// WriteFile encodes f and replaces any existing file at path.
func WriteFile(path string, f *midi.File) error {
	data, err := Encode(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fault.Wrap(err,
			ftag.With(ftag.Internal),
			fmsg.WithDesc("write output", fmt.Sprintf("Could not write %s", path)))
	}
	return nil
}

// Decode parses SMF bytes into absolute-tick tracks. End-of-track markers
// become Track.EndTicks rather than events.
func Decode(data []byte) (*midi.File, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.InvalidArgument),
			fmsg.WithDesc("decode smf", "Input is not a readable Standard MIDI File"))
	}

	f := &midi.File{
		Format:     uint16(s.Format()),
		TimeFormat: s.TimeFormat,
		Tracks:     make([]*midi.Track, 0, len(s.Tracks)),
	}
	for ti, st := range s.Tracks {
		t := &midi.Track{}
		var ticks uint64
		for ei, ev := range st {
			ticks += uint64(ev.Delta)
			decoded, err := decodeMessage(ticks, []byte(ev.Message))
			if err != nil {
				return nil, fault.Wrap(err,
					ftag.With(ftag.InvalidArgument),
					fmsg.With(fmt.Sprintf("track %d event %d", ti, ei)))
			}
			if decoded == nil {
				// end of track
				t.EndTicks = ticks
				continue
			}
			t.Append(decoded)
		}
		t.EndTicks = max(t.EndTicks, t.LastTicks())
		f.Tracks = append(f.Tracks, t)
	}
	return f, nil
}

// Encode writes f as a format 1 SMF, restoring delta times and closing each
// track at its end tick.
func Encode(f *midi.File) ([]byte, error) {
	s := smf.NewSMF1()
	if tf, ok := f.TimeFormat.(smf.TimeFormat); ok {
		s.TimeFormat = tf
	}

	for ti, t := range f.Tracks {
		var st smf.Track
		var last uint64
		for _, ev := range t.Events {
			ticks := ev.AbsoluteTicks()
			var delta uint32
			if ticks > last {
				delta = uint32(ticks - last)
				last = ticks
			}
			st = append(st, smf.Event{Delta: delta, Message: encodeEvent(ev)})
		}
		end := max(t.EndTicks, last)
		st.Close(uint32(end - last))
		if err := s.Add(st); err != nil {
			return nil, fault.Wrap(err,
				ftag.With(ftag.Internal),
				fmsg.With(fmt.Sprintf("add track %d", ti)))
		}
	}
	if len(f.Tracks) == 0 {
		// an SMF needs at least one track
		var st smf.Track
		st.Close(0)
		if err := s.Add(st); err != nil {
			return nil, fault.Wrap(err, ftag.With(ftag.Internal), fmsg.With("add empty track"))
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fault.Wrap(err,
			ftag.With(ftag.Internal),
			fmsg.WithDesc("encode smf", "Could not encode the MIDI file"))
	}
	return buf.Bytes(), nil
}
