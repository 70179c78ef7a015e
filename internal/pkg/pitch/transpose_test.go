package pitch

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineShift(t *testing.T) {
	for _, tc := range []struct {
		note        NoteName
		lines       int
		expected    NoteName
		octaveShift int
	}{
		{note: C, lines: 0, expected: C, octaveShift: 0},
		{note: E, lines: 0, expected: E, octaveShift: 0},
		{note: C, lines: 7, expected: C, octaveShift: 1},
		{note: C, lines: -1, expected: B, octaveShift: -1},
		// octave shift counts the B/C crossing, same as C-1 above, so this is -1 and not 0
		{note: D, lines: -2, expected: B, octaveShift: -1},
		{note: D, lines: -1, expected: C, octaveShift: 0},
		{note: B, lines: 1, expected: C, octaveShift: 1},
		{note: A, lines: 1, expected: B, octaveShift: 0},
		{note: C, lines: -15, expected: B, octaveShift: -3},
		{note: A, lines: 16, expected: C, octaveShift: 3},
		{note: G, lines: -7, expected: G, octaveShift: -1},
	} {
		t.Run(fmt.Sprintf("%s%+d", tc.note, tc.lines), func(t *testing.T) {
			note, shift := LineShift(tc.note, tc.lines)
			assert.Equal(t, tc.expected, note)
			assert.Equal(t, tc.octaveShift, shift)
		})
	}
}

func TestNextPrevious(t *testing.T) {
	assert.Equal(t, D, C.Next())
	assert.Equal(t, C, B.Next())
	assert.Equal(t, B, C.Previous())
	assert.Equal(t, E, F.Previous())
}

func TestWrapAroundCheck(t *testing.T) {
	for _, tc := range []struct {
		value    float64
		halftone float64
		overflow int
	}{
		{value: -13, halftone: 11, overflow: -2},
		{value: 25, halftone: 1, overflow: 2},
		{value: 0, halftone: 0, overflow: 0},
		{value: 11.5, halftone: 11.5, overflow: 0},
		{value: 12, halftone: 0, overflow: 1},
		{value: -0.5, halftone: 11.5, overflow: -1},
		{value: 1200.25, halftone: 0.25, overflow: 100},
		{value: -1e-20, halftone: 0, overflow: 0},
		{value: math.Inf(1), halftone: math.Inf(1), overflow: 0},
		{value: math.Inf(-1), halftone: math.Inf(-1), overflow: 0},
		{value: 1e300, halftone: 1e300, overflow: 0},
	} {
		t.Run(fmt.Sprintf("%v", tc.value), func(t *testing.T) {
			halftone, overflow := WrapAroundCheck(tc.value, 12)
			assert.Equal(t, tc.halftone, halftone)
			assert.Equal(t, tc.overflow, overflow)
		})
	}
}

func TestWrapAroundCheckUnwrappable(t *testing.T) {
	for _, tc := range []struct {
		name  string
		value float64
		limit float64
	}{
		{name: "zero limit", value: 5, limit: 0},
		{name: "negative limit", value: 5, limit: -12},
		{name: "nan limit", value: 5, limit: math.NaN()},
		{name: "infinite limit", value: 5, limit: math.Inf(1)},
	} {
		t.Run(tc.name, func(t *testing.T) {
			halftone, overflow := WrapAroundCheck(tc.value, tc.limit)
			assert.Equal(t, tc.value, halftone)
			assert.Equal(t, 0, overflow)
		})
	}

	halftone, overflow := WrapAroundCheck(math.NaN(), 12)
	assert.True(t, math.IsNaN(halftone))
	assert.Equal(t, 0, overflow)
}

func TestTransposedHalfTone(t *testing.T) {
	for _, tc := range []struct {
		pitch     Pitch
		transpose int
		halftone  float64
		overflow  int
	}{
		{pitch: New(B, 1, None), transpose: 2, halftone: 1, overflow: 1},
		{pitch: New(C, 1, Flat), transpose: 0, halftone: 11, overflow: -1},
		{pitch: New(A, 3, QuarterToneSharp), transpose: 3, halftone: 0.5, overflow: 1},
		{pitch: New(E, 0, None), transpose: -28, halftone: 0, overflow: -2},
		{pitch: New(G, 1, Sharp), transpose: 1, halftone: 9, overflow: 0},
	} {
		t.Run(fmt.Sprintf("%s%+d", tc.pitch, tc.transpose), func(t *testing.T) {
			halftone, overflow := TransposedHalfTone(tc.pitch, tc.transpose)
			assert.Equal(t, tc.halftone, halftone)
			assert.Equal(t, tc.overflow, overflow)
		})
	}
}

func TestShifted(t *testing.T) {
	for _, tc := range []struct {
		pitch     Pitch
		semitones int
		expected  Pitch
	}{
		{pitch: New(C, 1, None), semitones: 1, expected: New(C, 1, Sharp)},
		{pitch: New(C, 1, None), semitones: 0, expected: New(C, 1, None)},
		{pitch: New(B, 1, None), semitones: 1, expected: New(C, 2, None)},
		{pitch: New(C, 1, None), semitones: -1, expected: New(B, 0, None)},
		{pitch: New(D, 1, Flat), semitones: 0, expected: New(C, 1, Sharp)},
		{pitch: New(A, 1, None), semitones: 24, expected: New(A, 3, None)},
		{pitch: New(A, 1, None), semitones: -25, expected: New(G, -1, Sharp)},
		{pitch: New(A, 1, QuarterToneSharp), semitones: 1, expected: New(B, 1, QuarterToneFlat)},
		{pitch: New(C, 1, QuarterToneFlat), semitones: 0, expected: New(C, 1, QuarterToneFlat)},
		{pitch: New(F, 1, ThreeQuartersSharp), semitones: 0, expected: New(G, 1, QuarterToneFlat)},
		{pitch: New(E, 1, Koron), semitones: 2, expected: New(F, 1, Sharp)},
	} {
		t.Run(fmt.Sprintf("%s%+d", tc.pitch, tc.semitones), func(t *testing.T) {
			shifted := tc.pitch.Shifted(tc.semitones)
			assert.True(t, tc.expected.Equal(shifted), "expected %s, got %s", tc.expected, shifted)
		})
	}
}

func diatonicPosition(p Pitch) int {
	return p.Octave()*7 + p.FundamentalNote().index()
}

func TestTransposed(t *testing.T) {
	for _, note := range NoteNames() {
		for _, a := range []Accidental{None, Sharp, Flat, QuarterToneFlat, Koron} {
			p := New(note, 1, a)
			for factor := -MaxTransposeFactor; factor <= MaxTransposeFactor; factor++ {
				if factor == 0 {
					continue
				}
				transposed, err := p.Transposed(factor)
				assert.Nil(t, err)
				assert.Equal(t, None, transposed.Accidental(), "%s%+d", p, factor)
				assert.Equal(t, diatonicPosition(p)+factor, diatonicPosition(transposed), "%s%+d", p, factor)
				assert.Equal(t, mod(note.index()+factor, 7), transposed.FundamentalNote().index())
			}
		}
	}
}

func TestTransposedExamples(t *testing.T) {
	assert.Equal(t, "E1", New(C, 1, Sharp).MustTransposed(2).String())
	assert.Equal(t, "C2", New(B, 1, Flat).MustTransposed(1).String())
	assert.Equal(t, "A0", New(C, 1, None).MustTransposed(-2).String())
	assert.Equal(t, "F3", New(B, 1, None).MustTransposed(11).String())
}

func TestTransposedZero(t *testing.T) {
	p := New(F, 2, DoubleSharp, "x")
	transposed, err := p.Transposed(0)
	assert.Nil(t, err)
	assert.Equal(t, p, transposed)
}

func TestTransposedOutOfRange(t *testing.T) {
	p := New(E, 1, Flat)
	for _, factor := range []int{13, -13, 100} {
		t.Run(fmt.Sprintf("%d", factor), func(t *testing.T) {
			result, err := p.Transposed(factor)
			assert.ErrorIs(t, err, ErrTransposeFactor)
			assert.Equal(t, p, result)
			assert.Equal(t, p.HalfTone(), result.HalfTone())
			assert.Equal(t, p.Frequency(), result.Frequency())
			assert.Panics(t, func() { p.MustTransposed(factor) })
		})
	}
}

func TestInterval(t *testing.T) {
	assert.Equal(t, 7, Interval(New(C, 1, None), New(G, 1, None)))
	assert.Equal(t, -7, Interval(New(G, 1, None), New(C, 1, None)))
	assert.Equal(t, 0, Interval(New(C, 1, Sharp), New(D, 1, Flat)))
	assert.Equal(t, 12, Interval(New(A, 0, None), New(A, 1, None)))

	assert.Equal(t, "Perfect fifth", IntervalName(7))
	assert.Equal(t, "Perfect fifth", IntervalName(-7))
	assert.Equal(t, "Perfect octave", IntervalName(12))
	assert.Equal(t, "Perfect fifth + octave", IntervalName(19))
	assert.Equal(t, "2 octaves", IntervalName(24))
	assert.Equal(t, "Major second + 2 octaves", IntervalName(26))
}
