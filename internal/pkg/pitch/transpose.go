package pitch

import (
	"errors"
	"fmt"
	"math"
)

// MaxTransposeFactor limits Transposed to a single octave wrap.
const MaxTransposeFactor = 12

var ErrTransposeFactor = errors.New("transpose factor out of range")

// WrapAroundCheck brings value into [0, limit) and returns the number of limit
// sized steps taken, negative when value was below zero. Non-finite values and
// limits that are not positive and finite come back unchanged with zero overflow,
// so do values whose step count does not fit in int32.
func WrapAroundCheck(value, limit float64) (float64, int) {
	if math.IsNaN(value) || math.IsInf(value, 0) || !(limit > 0) || math.IsInf(limit, 0) {
		return value, 0
	}
	steps := math.Floor(value / limit)
	if steps > math.MaxInt32 || steps < math.MinInt32 {
		return value, 0
	}
	wrapped := value - steps*limit
	// rounding of tiny negative values may land exactly on limit
	if wrapped >= limit {
		wrapped -= limit
		steps++
	}
	if wrapped < 0 {
		wrapped = 0
	}
	return wrapped, int(steps)
}

// TransposedHalfTone shifts the in-octave halftone of p (letter plus accidental)
// by transpose halftones and returns wrapped value with octave overflow.
func TransposedHalfTone(p Pitch, transpose int) (float64, int) {
	value := float64(p.note) + HalfTonesFromAccidental(p.accidental) + float64(transpose)
	return WrapAroundCheck(value, 12)
}

// tagThreshold separates real microtonal offsets from tag-only accidental deltas
const tagThreshold = 0.01

// Shifted moves p by semitones. Result is spelled like FromHalftone, quarter
// tone remainders are kept as quarter tone accidentals on the nearest letter and
// tag-only accidentals (slash, sori, koron) are dropped.
func (p Pitch) Shifted(semitones int) Pitch {
	inOctave, overflow := TransposedHalfTone(p, semitones)
	whole := math.Floor(inOctave + 0.5)
	base := FromHalftone(int(whole) + (p.octave+overflow+OctaveXMLDifference)*12)

	rest := inOctave - whole
	if math.Abs(rest) < tagThreshold {
		return base
	}
	delta := HalfTonesFromAccidental(base.accidental) + rest
	return New(base.note, base.octave, AccidentalFromHalfTones(delta))
}

// Transposed moves p by factor diatonic steps, positive goes up. Accidental of
// the result is always None, factor 0 returns p unchanged. On error p is
// returned as is.
func (p Pitch) Transposed(factor int) (Pitch, error) {
	if factor > MaxTransposeFactor || factor < -MaxTransposeFactor {
		return p, fmt.Errorf("%w: %d (allowed -%d to %d)", ErrTransposeFactor, factor, MaxTransposeFactor, MaxTransposeFactor)
	}
	if factor == 0 {
		return p, nil
	}
	note, octaveShift := LineShift(p.note, factor)
	return New(note, p.octave+octaveShift, None), nil
}

// MustTransposed is like Transposed but panics on invalid factor.
func (p Pitch) MustTransposed(factor int) Pitch {
	t, err := p.Transposed(factor)
	if err != nil {
		panic(err)
	}
	return t
}
