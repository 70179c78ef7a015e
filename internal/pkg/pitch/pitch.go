package pitch

import (
	"fmt"
	"math"
)

// OctaveXMLDifference is the offset between the octave stored in Pitch and the
// octave of the absolute halftone numberline.
const OctaveXMLDifference = 3

const (
	referenceFrequency = 440.0
	referenceKey       = 57.0 // A in octave 1
)

// Pitch is a spelled note: letter, octave and accidental. Octave 1 contains A440.
// Pitch is a value type, operations return new values.
type Pitch struct {
	note       NoteName
	octave     int
	accidental Accidental
	hint       string

	halfTone  float64
	frequency float64
}

// New creates a Pitch. Optional hint carries original accidental spelling
// and takes no part in any calculation.
func New(note NoteName, octave int, accidental Accidental, hint ...string) Pitch {
	if !note.Valid() {
		panic(fmt.Sprintf("invalid note name: %d", int(note)))
	}
	p := Pitch{
		note:       note,
		octave:     octave,
		accidental: accidental,
	}
	if len(hint) > 0 {
		p.hint = hint[0]
	}
	delta := HalfTonesFromAccidental(accidental)
	p.halfTone = float64(note) + float64((octave+OctaveXMLDifference)*12) + delta
	p.frequency = calcFrequency(note, octave, delta)
	return p
}

func (p Pitch) FundamentalNote() NoteName     { return p.note }
func (p Pitch) Octave() int                   { return p.octave }
func (p Pitch) Accidental() Accidental        { return p.accidental }
func (p Pitch) AccidentalDisplayHint() string { return p.hint }
func (p Pitch) Frequency() float64            { return p.frequency }

// HalfTone returns absolute position on the halftone numberline, A440 is 57.
func (p Pitch) HalfTone() float64 { return p.halfTone }

// Key returns continuous piano key number, it equals HalfTone.
func (p Pitch) Key() float64 { return p.halfTone }

// Equal compares spelling, C# and Db are different pitches even though
// they share the same halftone.
func (p Pitch) Equal(o Pitch) bool {
	return p.note == o.note && p.octave == o.octave && p.accidental == o.accidental
}

// Compare orders by octave, then by letter; accidentals are ignored.
func Compare(a, b Pitch) int {
	switch {
	case a.octave < b.octave:
		return -1
	case a.octave > b.octave:
		return 1
	case a.note < b.note:
		return -1
	case a.note > b.note:
		return 1
	}
	return 0
}

func (p Pitch) Less(o Pitch) bool    { return Compare(p, o) < 0 }
func (p Pitch) Greater(o Pitch) bool { return Compare(p, o) > 0 }

// WithHint returns copy of p carrying given display hint.
func (p Pitch) WithHint(hint string) Pitch {
	p.hint = hint
	return p
}

func (p Pitch) String() string {
	return fmt.Sprintf("%s%s%d", p.note, p.accidental.Symbol(), p.octave)
}

func calcFrequency(note NoteName, octave int, delta float64) float64 {
	octaveFactor := math.Pow(2, float64(octave-1))
	return referenceFrequency * octaveFactor * math.Pow(2, (float64(note)-float64(A)+delta)/12)
}

// CalcFrequency returns frequency of p in Hz, 12-TET anchored at A440.
func CalcFrequency(p Pitch) float64 {
	return calcFrequency(p.note, p.octave, HalfTonesFromAccidental(p.accidental))
}

// FrequencyFromKey returns frequency of continuous key number, key 57 is A440.
func FrequencyFromKey(key float64) float64 {
	return referenceFrequency * math.Pow(2, (key-referenceKey)/12)
}

// CalcFractionalKey is the inverse of FrequencyFromKey.
func CalcFractionalKey(frequency float64) float64 {
	return referenceKey + 12*math.Log2(frequency/referenceFrequency)
}

// FromFrequency returns the nearest pitch. Halftones without their own letter
// are always spelled as the lower letter with a sharp. Frequencies without a
// finite key (zero, negative, NaN, infinite) snap to halftone 0, C-3.
func FromFrequency(frequency float64) Pitch {
	key := math.Floor(CalcFractionalKey(frequency) + 0.5)
	if math.IsNaN(key) || math.IsInf(key, 0) {
		return FromHalftone(0)
	}
	return FromHalftone(int(key))
}

// FromHalftone spells an absolute halftone, see FromFrequency.
func FromHalftone(halftone int) Pitch {
	octave := div(halftone, 12) - OctaveXMLDifference
	inOctave := mod(halftone, 12)
	accidental := None
	if !isDiatonic(inOctave) {
		inOctave--
		accidental = Sharp
	}
	return New(NoteName(inOctave), octave, accidental)
}
