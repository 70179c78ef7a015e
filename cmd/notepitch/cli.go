package main

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gethiox/notepitch/internal/pkg/logger"
	"github.com/gethiox/notepitch/internal/pkg/pitch"
	"github.com/logrusorgru/aurora"
	"github.com/lucasb-eyer/go-colorful"
)

type TimeNanosecond time.Time

func (j *TimeNanosecond) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return err
	}
	*j = TimeNanosecond(time.Unix(0, v))
	return nil
}

func (j TimeNanosecond) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(j))
}

type Entry struct {
	Ts     TimeNanosecond `json:"ts"`
	Caller string         `json:"caller"`
	Msg    string         `json:"msg"`
	Level  int            `json:"level"`
}

func unpack(data []byte) (Entry, error) {
	var v Entry
	err := json.Unmarshal(data, &v)
	return v, err
}

func gray(v uint8) aurora.Color {
	if v > 23 {
		v = 23
	}
	return aurora.Color(232+v) << 16
}

func color(r, g, b uint8) aurora.Color {
	return aurora.Color(16+36*r+6*g+b) << 16
}

// returns the same color for the same string
func colorForString(au aurora.Aurora, s string) aurora.Value {
	h := fnv.New32a()
	h.Write([]byte(s))
	sum := h.Sum32()

	r, g, b := uint8(sum)&0b00000111, uint8(sum>>8)&0b00000111, uint8(sum>>16)&0b00000111
	if r > 5 {
		r = 5
	}
	if g > 5 {
		g = 5
	}
	if b > 5 {
		b = 5
	}

	// avoid dark colors
	if r+g+b < 3 {
		r += 1
		g += 1
		b += 1
	}

	return au.Index(16+36*r+6*g+b, s)
}

// pitchClassColor maps halftone within an octave onto the color wheel,
// so every pitch class keeps its hue across octaves.
func pitchClassColor(halfTone float64) (r, g, b uint8) {
	class := math.Mod(halfTone, 12)
	if class < 0 {
		class += 12
	}
	c := colorful.Hsv(class/12*360, 0.8, 1)
	toCube := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 5))
	}
	return toCube(c.R), toCube(c.G), toCube(c.B)
}

func terminator(r rune) bool {
	if r >= 0x40 && r <= 0x7e {
		return true
	}
	return false
}

// rawStringLen returns a len of string ignoring included escape sequences
func rawStringLen(s string) int {
	var sequence bool
	var escLens []int
	var escLen int

	for i, r := range s {
		if !sequence {
			if r == '\033' {
				if i >= len(s)-1 { // esc seems to be last character
					continue
				}
				if s[i+1] == '[' {
					sequence = true
					escLen += 1
					continue
				}

			}
		} else {
			if r == '[' && s[i-1] == '\033' {
				escLen += 1
				continue
			}
			if terminator(r) {
				sequence = false
				escLen += 1
				escLens = append(escLens, escLen)
				escLen = 0
			} else {
				escLen += 1
			}
		}
	}
	var sum int
	for _, x := range escLens {
		sum += x
	}
	return len(s) - sum
}

type Printer struct {
	w      io.Writer
	au     aurora.Aurora
	glyphs bool
}

func NewPrinter(w io.Writer, colors, glyphs bool) Printer {
	return Printer{w: w, au: aurora.NewAurora(colors), glyphs: glyphs}
}

func (p Printer) pitchName(pt pitch.Pitch) string {
	acc := pt.Accidental().Symbol()
	if p.glyphs {
		acc = pt.Accidental().Glyph()
	}
	return fmt.Sprintf("%s%s%d", pt.FundamentalNote(), acc, pt.Octave())
}

// Pitch returns colored pitch name, padded to given width of visible characters.
func (p Printer) Pitch(pt pitch.Pitch, width int) string {
	name := p.pitchName(pt)
	r, g, b := pitchClassColor(pt.HalfTone())
	s := p.au.Index(16+36*r+6*g+b, name).String()
	if pad := width - len([]rune(name)); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func (p Printer) Label(s string) string {
	return p.au.Colorize(s, gray(12)).String()
}

func (p Printer) Name(s string) string {
	return colorForString(p.au, s).String()
}

func (p Printer) Println(a ...interface{}) {
	fmt.Fprintln(p.w, a...)
}

func (p Printer) Printf(format string, a ...interface{}) {
	fmt.Fprintf(p.w, format, a...)
}

func prepareString(msg Entry, au aurora.Aurora, logLevel int) string {
	if msg.Level > logLevel {
		return ""
	}

	var msgColor aurora.Color

	switch msg.Level {
	case logger.ErrorLvl:
		msgColor = color(5, 1, 1)
	case logger.WarningLvl:
		msgColor = color(5, 5, 1)
	case logger.InfoLvl:
		msgColor = gray(18)
	default:
		msgColor = gray(9)
	}

	t := time.Time(msg.Ts)
	timestamp := fmt.Sprintf(
		"[%s]",
		au.Reset(t.Format("15:04:05.000")).Colorize(color(1, 1, 5)).String(),
	)

	m := au.Reset(msg.Msg).Colorize(msgColor).String()
	if logLevel >= logger.DebugLvl && msg.Caller != "" {
		x := strings.Split(msg.Caller, ":")
		caller := colorForString(au, x[0]).String()
		if len(x) > 1 {
			caller += ":" + x[1]
		}
		return fmt.Sprintf("%s %s (%s)", timestamp, m, caller)
	}
	return fmt.Sprintf("%s %s", timestamp, m)
}

// Feeder prints log entries with level up to logLevel.
type Feeder struct {
	w        io.Writer
	au       aurora.Aurora
	logLevel int
}

func NewFeeder(w io.Writer, logLevel int, au aurora.Aurora) Feeder {
	return Feeder{w: w, logLevel: logLevel, au: au}
}

func (f *Feeder) Write(data []byte) {
	msg, err := unpack(data)
	if err != nil {
		f.w.Write(data)
		f.w.Write([]byte{'\n'})
		return
	}

	s := prepareString(msg, f.au, f.logLevel)
	if s != "" {
		f.w.Write([]byte(s))
		f.w.Write([]byte{'\n'})
	}
}

// Feed writes messages until done is closed, then flushes whatever is buffered.
func (f *Feeder) Feed(messages <-chan []byte, done <-chan struct{}) {
	for {
		select {
		case data := <-messages:
			f.Write(data)
		case <-done:
			for {
				select {
				case data := <-messages:
					f.Write(data)
				default:
					return
				}
			}
		}
	}
}
