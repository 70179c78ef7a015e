package midi

import (
	"errors"
	"fmt"
	"math"

	"github.com/gethiox/notepitch/internal/pkg/pitch"
)

// NoteOffset is the MIDI note number of halftone 0, A440 becomes note 69.
const NoteOffset = 12

// BendRange is pitch bend sensitivity in semitones assumed by PitchEvents.
const BendRange = 2.0

var ErrNoteRange = errors.New("note outside of midi range 0-127")

// NoteFromPitch returns MIDI note nearest to p and the remaining offset
// in semitones, within -0.5 and 0.5.
func NoteFromPitch(p pitch.Pitch) (byte, float64, error) {
	key := math.Floor(p.HalfTone() + 0.5)
	note := int(key) + NoteOffset
	if note < 0 || note > 127 {
		return 0, 0, fmt.Errorf("%w: %s (%d)", ErrNoteRange, p, note)
	}
	return byte(note), p.HalfTone() - key, nil
}

// FromNote spells MIDI note, black keys are spelled with sharps.
func FromNote(note byte) pitch.Pitch {
	return pitch.FromHalftone(int(note) - NoteOffset)
}

func NoteToPitch(note byte) string {
	p := FromNote(note)
	return p.FundamentalNote().String() + p.Accidental().Symbol()
}

func NoteToOctave(note byte) int {
	return FromNote(note).Octave()
}
