package midi

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gethiox/notepitch/internal/pkg/pitch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteToString(t *testing.T) {
	for _, tc := range []struct {
		note     byte
		expected string
	}{
		{note: 0, expected: "C -4"},
		{note: 1, expected: "C#-4"},
		{note: 2, expected: "D -4"},
		{note: 3, expected: "D#-4"},
		{note: 4, expected: "E -4"},
		{note: 5, expected: "F -4"},
		{note: 6, expected: "F#-4"},
		{note: 7, expected: "G -4"},
		{note: 8, expected: "G#-4"},
		{note: 9, expected: "A -4"},
		{note: 10, expected: "A#-4"},
		{note: 11, expected: "B -4"},

		{note: 12, expected: "C -3"},
		{note: 13, expected: "C#-3"},
		{note: 14, expected: "D -3"},
		{note: 15, expected: "D#-3"},
		{note: 16, expected: "E -3"},
		{note: 17, expected: "F -3"},
		{note: 18, expected: "F#-3"},
		{note: 19, expected: "G -3"},
		{note: 20, expected: "G#-3"},
		{note: 21, expected: "A -3"},
		{note: 22, expected: "A#-3"},
		{note: 23, expected: "B -3"},

		{note: 48, expected: "C  0"},
		{note: 49, expected: "C# 0"},
		{note: 50, expected: "D  0"},
		{note: 51, expected: "D# 0"},
		{note: 52, expected: "E  0"},
		{note: 53, expected: "F  0"},
		{note: 54, expected: "F# 0"},
		{note: 55, expected: "G  0"},
		{note: 56, expected: "G# 0"},
		{note: 57, expected: "A  0"},
		{note: 58, expected: "A# 0"},
		{note: 59, expected: "B  0"},

		{note: 60, expected: "C  1"},
		{note: 61, expected: "C# 1"},
		{note: 62, expected: "D  1"},
		{note: 63, expected: "D# 1"},
		{note: 64, expected: "E  1"},
		{note: 65, expected: "F  1"},
		{note: 66, expected: "F# 1"},
		{note: 67, expected: "G  1"},
		{note: 68, expected: "G# 1"},
		{note: 69, expected: "A  1"},
		{note: 70, expected: "A# 1"},
		{note: 71, expected: "B  1"},

		{note: 126, expected: "F# 6"},
		{note: 127, expected: "G  6"},
	} {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, noteToString(tc.note))
		})
	}
}

func TestNoteFromPitch(t *testing.T) {
	for _, tc := range []struct {
		pitch pitch.Pitch
		note  byte
		bend  float64
	}{
		{pitch: pitch.New(pitch.A, 1, pitch.None), note: 69, bend: 0},
		{pitch: pitch.New(pitch.C, 1, pitch.None), note: 60, bend: 0},
		{pitch: pitch.New(pitch.D, 1, pitch.Flat), note: 61, bend: 0},
		{pitch: pitch.New(pitch.C, -4, pitch.None), note: 0, bend: 0},
		{pitch: pitch.New(pitch.G, 6, pitch.None), note: 127, bend: 0},
		{pitch: pitch.New(pitch.A, 1, pitch.QuarterToneSharp), note: 70, bend: -0.5},
		{pitch: pitch.New(pitch.A, 1, pitch.QuarterToneFlat), note: 69, bend: -0.5},
		{pitch: pitch.New(pitch.E, 1, pitch.ThreeQuartersSharp), note: 66, bend: -0.5},
	} {
		t.Run(tc.pitch.String(), func(t *testing.T) {
			note, bend, err := NoteFromPitch(tc.pitch)
			assert.Nil(t, err)
			assert.Equal(t, tc.note, note)
			assert.InDelta(t, tc.bend, bend, 1e-9)
		})
	}
}

func TestNoteFromPitchOutOfRange(t *testing.T) {
	for _, p := range []pitch.Pitch{
		pitch.New(pitch.B, -5, pitch.None),
		pitch.New(pitch.G, 6, pitch.Sharp),
		pitch.New(pitch.C, 10, pitch.None),
	} {
		t.Run(p.String(), func(t *testing.T) {
			_, _, err := NoteFromPitch(p)
			assert.ErrorIs(t, err, ErrNoteRange)
		})
	}
}

func TestFromNoteRoundTrip(t *testing.T) {
	for n := 0; n <= 127; n++ {
		note, bend, err := NoteFromPitch(FromNote(byte(n)))
		require.Nil(t, err)
		assert.Equal(t, byte(n), note)
		assert.Equal(t, 0.0, bend)
	}
	assert.Equal(t, "A", NoteToPitch(69))
	assert.Equal(t, 1, NoteToOctave(69))
	assert.Equal(t, "C#", NoteToPitch(61))
}

func TestPitchBendEvent(t *testing.T) {
	for _, tc := range []struct {
		value    float64
		expected string
	}{
		{value: 0, expected: "Pitch Bend:    0% (channel:  1)"},
		{value: 0.5, expected: "Pitch Bend:   50% (channel:  1)"},
		{value: -0.5, expected: "Pitch Bend:  -50% (channel:  1)"},
		{value: 1, expected: "Pitch Bend:  100% (channel:  1)"},
		{value: -1, expected: "Pitch Bend: -100% (channel:  1)"},
		{value: 3, expected: "Pitch Bend:  100% (channel:  1)"},
	} {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, PitchBendEvent(0, tc.value).String())
		})
	}
	assert.Equal(t, Event{0xE0, 0x00, 0x40}, PitchBendEvent(0, 0))
}

func TestPitchEvents(t *testing.T) {
	events, err := PitchEvents(0, pitch.New(pitch.A, 1, pitch.None), 100)
	require.Nil(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Note On : A  1 (channel:  1, velocity: 100)", events[0].String())

	events, err = PitchEvents(2, pitch.New(pitch.A, 1, pitch.QuarterToneSharp), 100)
	require.Nil(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Pitch Bend:  -25% (channel:  3)", events[0].String())
	assert.Equal(t, "Note On : A# 1 (channel:  3, velocity: 100)", events[1].String())

	release, err := ReleaseEvents(2, pitch.New(pitch.A, 1, pitch.QuarterToneSharp))
	require.Nil(t, err)
	require.Len(t, release, 2)
	assert.Equal(t, "Note Off: A# 1 (channel:  3, velocity:   0)", release[0].String())
	assert.Equal(t, "Pitch Bend:    0% (channel:  3)", release[1].String())

	_, err = PitchEvents(0, pitch.New(pitch.C, 10, pitch.None), 100)
	assert.ErrorIs(t, err, ErrNoteRange)
}

func TestControlChangeEvent(t *testing.T) {
	assert.Equal(t, Event{0xB1, AllNotesOff, 0}, ControlChangeEvent(1, AllNotesOff, 0))
}

func TestProcessMidiEvents(t *testing.T) {
	var buf bytes.Buffer
	var score Score
	events := make(chan Event, 4)
	events <- NoteEvent(NoteOn, 0, 60, 100)
	events <- Event{}
	events <- NoteEvent(NoteOff, 0, 60, 0)
	close(events)

	err := ProcessMidiEvents(context.Background(), &buf, events, &score)
	assert.Nil(t, err)
	assert.Equal(t, []byte{0x90, 60, 100, 0x80, 60, 0}, buf.Bytes())
	assert.Equal(t, uint(1), score.NotesPlayed)
	assert.Equal(t, uint(2), score.MidiEventsEmitted)
}

func TestDetectDevices(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"midiC1D0", "pcmC0D0p", "controlC0"} {
		require.Nil(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}
	require.Nil(t, os.Mkdir(filepath.Join(dir, "midi"), 0o755))

	devices, err := detectDevices(dir)
	require.Nil(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, filepath.Join(dir, "midiC1D0"), devices[0].Path())

	_, err = detectDevices(filepath.Join(dir, "missing"))
	assert.NotNil(t, err)
}

func TestEvent_String(t *testing.T) {
	for _, tc := range []struct {
		midiEvent Event
		expected  string
	}{
		{
			midiEvent: []byte{0b10000000, 0b00000000, 0b00000000},
			expected:  "Note Off: C -4 (channel:  1, velocity:   0)",
		}, {
			midiEvent: []byte{0b10000000, 0b00000001, 0b00000000},
			expected:  "Note Off: C#-4 (channel:  1, velocity:   0)",
		}, {
			midiEvent: []byte{0b10001111, 0b00000001, 0b00000000},
			expected:  "Note Off: C#-4 (channel: 16, velocity:   0)",
		}, {
			midiEvent: []byte{0b10001111, 0b00000001, 0b01111111},
			expected:  "Note Off: C#-4 (channel: 16, velocity: 127)",
		}, {
			midiEvent: []byte{0b10001111, 0b01111111, 0b01111111},
			expected:  "Note Off: G  6 (channel: 16, velocity: 127)",
		},

		{
			midiEvent: []byte{0b10010000, 0b00000000, 0b00000000},
			expected:  "Note On : C -4 (channel:  1, velocity:   0)",
		}, {
			midiEvent: []byte{0b10010000, 0b00000001, 0b00000000},
			expected:  "Note On : C#-4 (channel:  1, velocity:   0)",
		}, {
			midiEvent: []byte{0b10011111, 0b00000001, 0b00000000},
			expected:  "Note On : C#-4 (channel: 16, velocity:   0)",
		}, {
			midiEvent: []byte{0b10011111, 0b00000001, 0b01111111},
			expected:  "Note On : C#-4 (channel: 16, velocity: 127)",
		}, {
			midiEvent: []byte{0b10011111, 0b01111111, 0b01111111},
			expected:  "Note On : G  6 (channel: 16, velocity: 127)",
		},

		{
			midiEvent: []byte{0b10100000, 0b00000000, 0b00000000},
			expected:  "Polyphonic Key Pressure: C -4 (channel:  1, pressure:   0)",
		}, {
			midiEvent: []byte{0b10100000, 0b00000001, 0b00000000},
			expected:  "Polyphonic Key Pressure: C#-4 (channel:  1, pressure:   0)",
		}, {
			midiEvent: []byte{0b10101111, 0b00000001, 0b00000000},
			expected:  "Polyphonic Key Pressure: C#-4 (channel: 16, pressure:   0)",
		}, {
			midiEvent: []byte{0b10101111, 0b00000001, 0b01111111},
			expected:  "Polyphonic Key Pressure: C#-4 (channel: 16, pressure: 127)",
		}, {
			midiEvent: []byte{0b10101111, 0b01111111, 0b01111111},
			expected:  "Polyphonic Key Pressure: G  6 (channel: 16, pressure: 127)",
		},

		{
			midiEvent: []byte{0b10110000, 0b00000000, 0b00000000},
			expected:  "Control Change:   0, value:   0 (channel:  1)",
		}, {
			midiEvent: []byte{0b10110000, 0b00000001, 0b00000000},
			expected:  "Control Change:   1, value:   0 (channel:  1)",
		}, {
			midiEvent: []byte{0b10111111, 0b00000001, 0b00000000},
			expected:  "Control Change:   1, value:   0 (channel: 16)",
		}, {
			midiEvent: []byte{0b10111111, 0b00000001, 0b01111111},
			expected:  "Control Change:   1, value: 127 (channel: 16)",
		}, {
			midiEvent: []byte{0b10111111, 0b01111111, 0b01111111},
			expected:  "Control Change: 127, value: 127 (channel: 16)",
		},

		{
			midiEvent: []byte{0b11000000, 0b00000000},
			expected:  "Program Change:   0 (channel:  1)",
		}, {
			midiEvent: []byte{0b11000000, 0b00000001},
			expected:  "Program Change:   1 (channel:  1)",
		}, {
			midiEvent: []byte{0b11001111, 0b00000001},
			expected:  "Program Change:   1 (channel: 16)",
		}, {
			midiEvent: []byte{0b11001111, 0b01111111},
			expected:  "Program Change: 127 (channel: 16)",
		},

		{
			midiEvent: []byte{0b11010000, 0b00000000},
			expected:  "Channel Pressure:   0 (channel:  1)",
		}, {
			midiEvent: []byte{0b11010000, 0b00000001},
			expected:  "Channel Pressure:   1 (channel:  1)",
		}, {
			midiEvent: []byte{0b11011111, 0b00000001},
			expected:  "Channel Pressure:   1 (channel: 16)",
		}, {
			midiEvent: []byte{0b11011111, 0b01111111},
			expected:  "Channel Pressure: 127 (channel: 16)",
		},

		{
			midiEvent: []byte{0b11100000, 0b00000000, 0b01000000},
			expected:  "Pitch Bend:    0% (channel:  1)",
		}, {
			midiEvent: []byte{0b11101111, 0b00000000, 0b01000000},
			expected:  "Pitch Bend:    0% (channel: 16)",
		}, {
			midiEvent: []byte{0b11101111, 0b00000000, 0b01100000},
			expected:  "Pitch Bend:   50% (channel: 16)",
		}, {
			midiEvent: []byte{0b11101111, 0b01111111, 0b01111111},
			expected:  "Pitch Bend:  100% (channel: 16)",
		}, {
			midiEvent: []byte{0b11101111, 0b00000000, 0b00100000},
			expected:  "Pitch Bend:  -50% (channel: 16)",
		}, {
			midiEvent: []byte{0b11101111, 0b00000000, 0b00000000},
			expected:  "Pitch Bend: -100% (channel: 16)",
		},
	} {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.midiEvent.String())
		})
	}
}
