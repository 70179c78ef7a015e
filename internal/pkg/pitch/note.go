package pitch

import (
	"fmt"
	"strings"
)

// NoteName is a diatonic letter, its value is the halftone offset within an octave.
type NoteName int

const (
	C NoteName = 0
	D NoteName = 2
	E NoteName = 4
	F NoteName = 5
	G NoteName = 7
	A NoteName = 9
	B NoteName = 11
)

// diatonic cycle used for line/space stepping
var noteNames = [7]NoteName{C, D, E, F, G, A, B}

var noteToString = map[NoteName]string{
	C: "C", D: "D", E: "E", F: "F", G: "G", A: "A", B: "B",
}

var stringToNote = map[string]NoteName{
	"C": C, "D": D, "E": E, "F": F, "G": G, "A": A, "B": B,
}

func (n NoteName) String() string {
	s, ok := noteToString[n]
	if !ok {
		return fmt.Sprintf("NoteName(%d)", int(n))
	}
	return s
}

func (n NoteName) Valid() bool {
	_, ok := noteToString[n]
	return ok
}

// index returns position of n in the diatonic cycle.
func (n NoteName) index() int {
	switch n {
	case C:
		return 0
	case D:
		return 1
	case E:
		return 2
	case F:
		return 3
	case G:
		return 4
	case A:
		return 5
	case B:
		return 6
	default:
		panic(fmt.Sprintf("invalid note name: %d", int(n)))
	}
}

// Next returns following letter in the diatonic cycle, B wraps to C.
func (n NoteName) Next() NoteName {
	return noteNames[(n.index()+1)%len(noteNames)]
}

// Previous returns preceding letter in the diatonic cycle, C wraps to B.
func (n NoteName) Previous() NoteName {
	return noteNames[(n.index()+len(noteNames)-1)%len(noteNames)]
}

func ParseNoteName(s string) (NoteName, error) {
	n, ok := stringToNote[strings.ToUpper(s)]
	if !ok {
		return C, fmt.Errorf("unknown note name: \"%s\"", s)
	}
	return n, nil
}

// NoteNames returns the diatonic cycle, C to B.
func NoteNames() []NoteName {
	names := noteNames
	return names[:]
}

func isDiatonic(halftone int) bool {
	switch halftone {
	case 0, 2, 4, 5, 7, 9, 11:
		return true
	}
	return false
}

// Ceiling returns the letter of halftone, rounding non-diatonic halftones up.
func Ceiling(halftone int) NoteName {
	halftone = mod(halftone, 12)
	if !isDiatonic(halftone) {
		halftone++
	}
	return NoteName(mod(halftone, 12))
}

// Floor returns the letter of halftone, rounding non-diatonic halftones down.
func Floor(halftone int) NoteName {
	halftone = mod(halftone, 12)
	if !isDiatonic(halftone) {
		halftone--
	}
	return NoteName(halftone)
}

// LineShift steps the note by lines positions along the diatonic cycle.
// Returned octave shift counts how many times the B/C boundary was crossed.
func LineShift(note NoteName, lines int) (NoteName, int) {
	if lines == 0 {
		return note, 0
	}
	i := note.index() + lines
	return noteNames[mod(i, len(noteNames))], div(i, len(noteNames))
}

// mod is modulo with result always in [0, m)
func mod(v, m int) int {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}

// div is floor division
func div(v, m int) int {
	q := v / m
	if v%m != 0 && (v < 0) != (m < 0) {
		q--
	}
	return q
}
