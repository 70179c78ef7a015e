package pitch

import (
	"fmt"
	"regexp"
	"strconv"
)

var stringToPitchRegex = regexp.MustCompile(`^(?P<note>[a-gA-G])(?P<accidental>[#bnd+sok]*)(?P<octave>-?\d+)$`)

// ParsePitch reads pitch in a form produced by Pitch.String, e.g. "C#1", "bb0", "E+s-2".
func ParsePitch(s string) (Pitch, error) {
	match := stringToPitchRegex.FindStringSubmatch(s)
	if len(match) == 0 {
		return Pitch{}, fmt.Errorf("unsupported pitch format: \"%s\"", s)
	}

	note, err := ParseNoteName(match[1])
	if err != nil {
		return Pitch{}, err
	}

	accidental, ok := symbolToAccidental[match[2]]
	if !ok {
		return Pitch{}, fmt.Errorf("unknown accidental symbol in \"%s\": \"%s\"", s, match[2])
	}

	octave, err := strconv.Atoi(match[3])
	if err != nil {
		return Pitch{}, fmt.Errorf("parsing octave failed: %w", err)
	}

	return New(note, octave, accidental), nil
}

func MustParsePitch(s string) Pitch {
	p, err := ParsePitch(s)
	if err != nil {
		panic(err)
	}
	return p
}
