package midi

import (
	"fmt"
	"math"

	"github.com/gethiox/notepitch/internal/pkg/pitch"
	gomidi "gitlab.com/gomidi/midi/v2"
)

const (
	// message types
	NoteOff               uint8 = 0b1000 << 4
	NoteOn                uint8 = 0b1001 << 4
	PolyphonicKeyPressure uint8 = 0b1010 << 4 // After-touch
	ControlChange         uint8 = 0b1011 << 4
	ProgramChange         uint8 = 0b1100 << 4
	ChannelPressure       uint8 = 0b1101 << 4 // After-touch
	PitchWheelChange      uint8 = 0b1110 << 4

	// ControlChange
	AllNotesOff         uint8 = 0b01111011
	AllSoundOff         uint8 = 0b01111000
	ResetAllControllers uint8 = 0b01111001
)

func noteToString(note byte) string {
	p := FromNote(note)
	return fmt.Sprintf("%-2s%2d", p.FundamentalNote().String()+p.Accidental().Symbol(), p.Octave())
}

type Event []byte

func (e Event) String() string {
	if len(e) == 0 {
		return fmt.Sprintf("Warning: empty Midi event, it should be not emitted")
	}
	channel := e[0]&0b1111 + 1
	switch x := e[0] & 0b11110000; x {
	case NoteOff:
		return fmt.Sprintf("Note Off: %s (channel: %2d, velocity: %3d)", noteToString(e[1]), channel, e[2])
	case NoteOn:
		return fmt.Sprintf("Note On : %s (channel: %2d, velocity: %3d)", noteToString(e[1]), channel, e[2])
	case PolyphonicKeyPressure:
		return fmt.Sprintf("Polyphonic Key Pressure: %s (channel: %2d, pressure: %3d)", noteToString(e[1]), channel, e[2])
	case ControlChange:
		var value string
		if len(e) == 3 {
			value = fmt.Sprintf("%3d", e[2])
		} else {
			value = "---"
		}
		return fmt.Sprintf("Control Change: %3d, value: %s (channel: %2d)", e[1], value, channel)
	case ProgramChange:
		return fmt.Sprintf("Program Change: %3d (channel: %2d)", e[1], channel)
	case ChannelPressure:
		return fmt.Sprintf("Channel Pressure: %3d (channel: %2d)", e[1], channel)
	case PitchWheelChange:
		val := float64((int(e[2])<<7)+int(e[1])-8192) / 8192 // max value: 16383, middle value (no pitch change): 8192
		return fmt.Sprintf("Pitch Bend: %4.0f%% (channel: %2d)", val*100, channel)
	default:
		msg := "Oof, unexpected event format: "
		for _, v := range e {
			msg += fmt.Sprintf("0x%02x ", v)
		}
		return msg
	}
}

// Message exposes the event to gomidi helpers.
func (e Event) Message() gomidi.Message {
	return gomidi.Message(e)
}

func NoteEvent(messageType, channel, note, velocity uint8) Event {
	return Event{messageType | channel, note, velocity}
}

func ControlChangeEvent(channel, function, value uint8) Event {
	return Event(gomidi.ControlChange(channel, function, value))
}

// PitchBendEvent accepts a value in range -1.0 to 1.0, values outside are clamped
func PitchBendEvent(channel uint8, val float64) Event {
	val = math.Max(-1, math.Min(1, val))
	var target int16
	if val < 0 {
		target = int16(math.Round(val * 8192))
	} else {
		target = int16(math.Round(val * 8191))
	}
	return Event(gomidi.Pitchbend(channel, target))
}

// PitchEvents returns note on event for p preceded by pitch bend when p does not
// land exactly on a MIDI note. Bend assumes BendRange semitones sensitivity.
func PitchEvents(channel uint8, p pitch.Pitch, velocity uint8) ([]Event, error) {
	note, bend, err := NoteFromPitch(p)
	if err != nil {
		return nil, err
	}

	var events []Event
	if bend != 0 {
		events = append(events, PitchBendEvent(channel, bend/BendRange))
	}
	events = append(events, NoteEvent(NoteOn, channel, note, velocity))
	return events, nil
}

// ReleaseEvents undoes PitchEvents.
func ReleaseEvents(channel uint8, p pitch.Pitch) ([]Event, error) {
	note, bend, err := NoteFromPitch(p)
	if err != nil {
		return nil, err
	}

	events := []Event{NoteEvent(NoteOff, channel, note, 0)}
	if bend != 0 {
		events = append(events, PitchBendEvent(channel, 0))
	}
	return events, nil
}
