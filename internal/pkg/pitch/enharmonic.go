package pitch

// EnharmonicChange respells p on the neighbouring letter keeping its halftone:
// flats move to the previous letter, sharps to the next one. Other accidentals
// have no respelling and p is returned as is.
func (p Pitch) EnharmonicChange() Pitch {
	var note NoteName
	octave := p.octave

	switch p.accidental {
	case Flat, DoubleFlat:
		note = p.note.Previous()
		if note == B {
			octave--
		}
	case Sharp, DoubleSharp:
		note = p.note.Next()
		if note == C {
			octave++
		}
	default:
		return p
	}

	base := float64(note) + float64((octave+OctaveXMLDifference)*12)
	accidental := AccidentalFromHalfTones(p.halfTone - base)
	return New(note, octave, accidental)
}
