package pitch

import (
	"fmt"
	"math"
)

var intervalToString = map[int]string{
	0:  "Perfect unison",
	1:  "Minor second",
	2:  "Major second",
	3:  "Minor third",
	4:  "Major third",
	5:  "Perfect fourth",
	6:  "Tritone",
	7:  "Perfect fifth",
	8:  "Minor sixth",
	9:  "Major sixth",
	10: "Minor seventh",
	11: "Major seventh",
	12: "Perfect octave",
}

// IntervalName names a semitone distance, direction is ignored.
// Distances wider than an octave are reported as compound intervals.
func IntervalName(semitones int) string {
	if semitones < 0 {
		semitones = -semitones
	}
	if semitones <= 12 {
		return intervalToString[semitones]
	}

	octaves := semitones / 12
	rest := semitones % 12
	if rest == 0 {
		return fmt.Sprintf("%d octaves", octaves)
	}
	if octaves == 1 {
		return fmt.Sprintf("%s + octave", intervalToString[rest])
	}
	return fmt.Sprintf("%s + %d octaves", intervalToString[rest], octaves)
}

// Interval returns rounded semitone distance from a to b, positive when b sounds higher.
func Interval(a, b Pitch) int {
	return int(math.Round(b.halfTone - a.halfTone))
}
