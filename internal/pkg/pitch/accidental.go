package pitch

import (
	"fmt"
	"strings"
)

type Accidental int

const (
	None Accidental = iota
	Sharp
	Flat
	Natural
	DoubleSharp
	DoubleFlat
	TripleSharp
	TripleFlat
	QuarterToneSharp
	QuarterToneFlat
	SlashFlat
	ThreeQuartersSharp
	ThreeQuartersFlat
	SlashQuarterSharp
	SlashSharp
	DoubleSlashFlat
	Sori
	Koron

	accidentalCount = iota
)

var accidentalNames = [accidentalCount]string{
	None:               "none",
	Sharp:              "sharp",
	Flat:               "flat",
	Natural:            "natural",
	DoubleSharp:        "double_sharp",
	DoubleFlat:         "double_flat",
	TripleSharp:        "triple_sharp",
	TripleFlat:         "triple_flat",
	QuarterToneSharp:   "quarter_tone_sharp",
	QuarterToneFlat:    "quarter_tone_flat",
	SlashFlat:          "slash_flat",
	ThreeQuartersSharp: "three_quarters_sharp",
	ThreeQuartersFlat:  "three_quarters_flat",
	SlashQuarterSharp:  "slash_quarter_sharp",
	SlashSharp:         "slash_sharp",
	DoubleSlashFlat:    "double_slash_flat",
	Sori:               "sori",
	Koron:              "koron",
}

// notation symbol codes consumed by renderers
var accidentalSymbols = [accidentalCount]string{
	None:               "",
	Sharp:              "#",
	Flat:               "b",
	Natural:            "n",
	DoubleSharp:        "##",
	DoubleFlat:         "bb",
	TripleSharp:        "###",
	TripleFlat:         "bbb",
	QuarterToneSharp:   "+",
	QuarterToneFlat:    "d",
	SlashFlat:          "bs",
	ThreeQuartersSharp: "++",
	ThreeQuartersFlat:  "db",
	SlashQuarterSharp:  "+s",
	SlashSharp:         "#s",
	DoubleSlashFlat:    "bss",
	Sori:               "o",
	Koron:              "k",
}

var accidentalGlyphs = [accidentalCount]string{
	None:               "",
	Sharp:              "♯",
	Flat:               "♭",
	Natural:            "♮",
	DoubleSharp:        "𝄪",
	DoubleFlat:         "𝄫",
	TripleSharp:        "♯𝄪",
	TripleFlat:         "♭𝄫",
	QuarterToneSharp:   "𝄲",
	QuarterToneFlat:    "𝄳",
	SlashFlat:          "♭̸",
	ThreeQuartersSharp: "𝄰",
	ThreeQuartersFlat:  "𝄭",
	SlashQuarterSharp:  "𝄲̸",
	SlashSharp:         "♯̸",
	DoubleSlashFlat:    "𝄫̸",
	Sori:               "o",
	Koron:              "k",
}

var symbolToAccidental = func() map[string]Accidental {
	m := make(map[string]Accidental, accidentalCount)
	for i, s := range accidentalSymbols {
		m[s] = Accidental(i)
	}
	return m
}()

var nameToAccidental = func() map[string]Accidental {
	m := make(map[string]Accidental, accidentalCount)
	for i, s := range accidentalNames {
		m[s] = Accidental(i)
	}
	return m
}()

func (a Accidental) Valid() bool {
	return a >= None && a < accidentalCount
}

func (a Accidental) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Accidental(%d)", int(a))
	}
	return accidentalNames[a]
}

// Symbol returns notation symbol code, empty for None.
func (a Accidental) Symbol() string {
	if !a.Valid() {
		panic(fmt.Sprintf("invalid accidental: %d", int(a)))
	}
	return accidentalSymbols[a]
}

// Glyph returns unicode representation meant for terminal output.
func (a Accidental) Glyph() string {
	if !a.Valid() {
		panic(fmt.Sprintf("invalid accidental: %d", int(a)))
	}
	return accidentalGlyphs[a]
}

// Accidentals returns all supported accidentals in declaration order.
func Accidentals() []Accidental {
	all := make([]Accidental, accidentalCount)
	for i := range all {
		all[i] = Accidental(i)
	}
	return all
}

// ParseAccidental accepts either symbol code ("#", "bb", "+") or name ("double_flat").
func ParseAccidental(s string) (Accidental, error) {
	if a, ok := symbolToAccidental[s]; ok {
		return a, nil
	}
	if a, ok := nameToAccidental[strings.ToLower(s)]; ok {
		return a, nil
	}
	return None, fmt.Errorf("unknown accidental: \"%s\"", s)
}

// HalfTonesFromAccidental returns halftone delta of given accidental.
// Slash, sori and koron variants carry tiny distinct values only to keep them
// apart numerically, arithmetic treats them as unaltered.
func HalfTonesFromAccidental(a Accidental) float64 {
	switch a {
	case None:
		return 0
	case Sharp:
		return 1
	case Flat:
		return -1
	case Natural:
		return 0
	case DoubleSharp:
		return 2
	case DoubleFlat:
		return -2
	case TripleSharp:
		return 3
	case TripleFlat:
		return -3
	case QuarterToneSharp:
		return 0.5
	case QuarterToneFlat:
		return -0.5
	case SlashFlat:
		return -0.51
	case ThreeQuartersSharp:
		return 1.5
	case ThreeQuartersFlat:
		return -1.5
	case SlashQuarterSharp:
		return 0.0013
	case SlashSharp:
		return 0.0014
	case DoubleSlashFlat:
		return -0.0015
	case Sori:
		return 0.0016
	case Koron:
		return 0.0017
	default:
		panic(fmt.Sprintf("invalid accidental: %d", int(a)))
	}
}

// AccidentalFromHalfTones is a best-effort inverse of HalfTonesFromAccidental.
// Fractional deltas between -1 and 1 collapse into quarter tones, everything
// unrecognized falls back to QuarterToneSharp.
func AccidentalFromHalfTones(halfTones float64) Accidental {
	switch halfTones {
	case 0:
		return None
	case 1:
		return Sharp
	case -1:
		return Flat
	case 2:
		return DoubleSharp
	case -2:
		return DoubleFlat
	case 3:
		return TripleSharp
	case -3:
		return TripleFlat
	case 0.5:
		return QuarterToneSharp
	case -0.5:
		return QuarterToneFlat
	case 1.5:
		return ThreeQuartersSharp
	case -1.5:
		return ThreeQuartersFlat
	}

	if halfTones < 0 && halfTones > -1 {
		return QuarterToneFlat
	}
	return QuarterToneSharp
}
