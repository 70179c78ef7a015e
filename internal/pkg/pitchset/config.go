package pitchset

import (
	"fmt"

	"github.com/gethiox/notepitch/internal/pkg/pitch"
)

const (
	Factory SetType = "factory"
	User    SetType = "user"
)

type SetType string

// Set is a named collection of pitches together with operations applied to
// every member: diatonic steps first, then a chromatic shift, then optional
// enharmonic respelling.
type Set struct {
	Name       string
	Pitches    []pitch.Pitch
	Steps      int
	Semitones  int
	Enharmonic bool
}

// Apply returns pitches of the set after its operations.
func (s Set) Apply() ([]pitch.Pitch, error) {
	var result = make([]pitch.Pitch, 0, len(s.Pitches))
	for _, p := range s.Pitches {
		t, err := p.Transposed(s.Steps)
		if err != nil {
			return nil, fmt.Errorf("[%s] %s: %w", s.Name, p, err)
		}
		if s.Semitones != 0 {
			t = t.Shifted(s.Semitones)
		}
		if s.Enharmonic {
			t = t.EnharmonicChange()
		}
		result = append(result, t)
	}
	return result, nil
}

type SetFile struct {
	Path string
	Type SetType
	Sets []Set
}
