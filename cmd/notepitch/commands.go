package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/gethiox/notepitch/internal/pkg/logger"
	"github.com/gethiox/notepitch/internal/pkg/midi"
	"github.com/gethiox/notepitch/internal/pkg/pitch"
	"github.com/gethiox/notepitch/internal/pkg/pitchset"
)

var ErrUsage = errors.New("invalid usage")

type command struct {
	usage string
	run   func(ctx context.Context, env *Env, args []string) error
}

// Env is shared by all commands.
type Env struct {
	Config NotePitchConfig
	Out    Printer
}

var commands = map[string]command{
	"info":        {usage: "info <pitch>...", run: runInfo},
	"freq":        {usage: "freq <hz>...", run: runFreq},
	"snap":        {usage: "snap <halftone>...", run: runSnap},
	"transpose":   {usage: "transpose <pitch> <diatonic steps>", run: runTranspose},
	"shift":       {usage: "shift <pitch> <semitones>", run: runShift},
	"enharmonic":  {usage: "enharmonic <pitch>...", run: runEnharmonic},
	"line":        {usage: "line <note> <lines>", run: runLine},
	"interval":    {usage: "interval <pitch> <pitch>", run: runInterval},
	"accidentals": {usage: "accidentals", run: runAccidentals},
	"midi":        {usage: "midi [-channel n] [-velocity n] [-device n] [-duration d] <pitch>...", run: runMidi},
	"sets":        {usage: "sets [name]...", run: runSets},
	"watch":       {usage: "watch", run: runWatch},
}

func commandNames() []string {
	var names []string
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func parsePitches(args []string) ([]pitch.Pitch, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: no pitch given", ErrUsage)
	}
	var pitches = make([]pitch.Pitch, 0, len(args))
	for _, arg := range args {
		p, err := pitch.ParsePitch(arg)
		if err != nil {
			return nil, err
		}
		pitches = append(pitches, p)
	}
	return pitches, nil
}

func parseInt(s, what string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer: \"%s\"", ErrUsage, what, s)
	}
	return i, nil
}

func describe(env *Env, p pitch.Pitch) string {
	out := env.Out
	midiNote := "--"
	if note, _, err := midi.NoteFromPitch(p); err == nil {
		midiNote = fmt.Sprintf("%3d", note)
	}
	return fmt.Sprintf(
		"%s %s %7.2f %s %10.3f Hz %s %s",
		out.Pitch(p, 6),
		out.Label("halftone"), p.HalfTone(),
		out.Label("frequency"), p.Frequency(),
		out.Label("midi"), midiNote,
	)
}

func runInfo(ctx context.Context, env *Env, args []string) error {
	pitches, err := parsePitches(args)
	if err != nil {
		return err
	}
	for _, p := range pitches {
		env.Out.Println(describe(env, p))
	}
	return nil
}

func runFreq(ctx context.Context, env *Env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no frequency given", ErrUsage)
	}
	for _, arg := range args {
		f, err := strconv.ParseFloat(arg, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("%w: frequency must be a positive number: \"%s\"", ErrUsage, arg)
		}
		key := pitch.CalcFractionalKey(f)
		p := pitch.FromFrequency(f)
		cents := (key - p.HalfTone()) * 100
		env.Out.Printf("%10.3f Hz -> %s %s %.3f %s %+.1f\n",
			f, env.Out.Pitch(p, 6), env.Out.Label("key"), key, env.Out.Label("cents"), cents)
	}
	return nil
}

func runSnap(ctx context.Context, env *Env, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no halftone given", ErrUsage)
	}
	for _, arg := range args {
		ht, err := parseInt(arg, "halftone")
		if err != nil {
			return err
		}
		env.Out.Printf("%4d -> %s %s %s %s %s\n", ht,
			env.Out.Pitch(pitch.FromHalftone(ht), 6),
			env.Out.Label("floor"), pitch.Floor(ht),
			env.Out.Label("ceiling"), pitch.Ceiling(ht),
		)
	}
	return nil
}

func runTranspose(ctx context.Context, env *Env, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected pitch and step count", ErrUsage)
	}
	p, err := pitch.ParsePitch(args[0])
	if err != nil {
		return err
	}
	steps, err := parseInt(args[1], "step count")
	if err != nil {
		return err
	}
	t, err := p.Transposed(steps)
	if err != nil {
		return err
	}
	env.Out.Printf("%s %+d -> %s\n", env.Out.Pitch(p, 0), steps, env.Out.Pitch(t, 0))
	return nil
}

func runShift(ctx context.Context, env *Env, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected pitch and semitone count", ErrUsage)
	}
	p, err := pitch.ParsePitch(args[0])
	if err != nil {
		return err
	}
	semitones, err := parseInt(args[1], "semitone count")
	if err != nil {
		return err
	}
	ht, overflow := pitch.TransposedHalfTone(p, semitones)
	log.Info(fmt.Sprintf("%s %+d: in-octave halftone %.2f, octave overflow %d", p, semitones, ht, overflow), logger.Debug)
	env.Out.Printf("%s %+d -> %s\n", env.Out.Pitch(p, 0), semitones, env.Out.Pitch(p.Shifted(semitones), 0))
	return nil
}

func runEnharmonic(ctx context.Context, env *Env, args []string) error {
	pitches, err := parsePitches(args)
	if err != nil {
		return err
	}
	for _, p := range pitches {
		changed := p.EnharmonicChange()
		if changed.Equal(p) {
			log.Info(fmt.Sprintf("%s has no enharmonic respelling", p), logger.Info)
		}
		env.Out.Printf("%s -> %s\n", env.Out.Pitch(p, 6), env.Out.Pitch(changed, 0))
	}
	return nil
}

func runLine(ctx context.Context, env *Env, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected note name and line count", ErrUsage)
	}
	note, err := pitch.ParseNoteName(args[0])
	if err != nil {
		return err
	}
	lines, err := parseInt(args[1], "line count")
	if err != nil {
		return err
	}
	shifted, octaveShift := pitch.LineShift(note, lines)
	env.Out.Printf("%s %+d -> %s %s %+d\n", note, lines, shifted, env.Out.Label("octave"), octaveShift)
	return nil
}

func runInterval(ctx context.Context, env *Env, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: expected two pitches", ErrUsage)
	}
	pitches, err := parsePitches(args)
	if err != nil {
		return err
	}
	semitones := pitch.Interval(pitches[0], pitches[1])
	env.Out.Printf("%s -> %s: %+d (%s)\n",
		env.Out.Pitch(pitches[0], 0), env.Out.Pitch(pitches[1], 0), semitones, pitch.IntervalName(semitones))
	return nil
}

func runAccidentals(ctx context.Context, env *Env, args []string) error {
	for _, a := range pitch.Accidentals() {
		env.Out.Printf("%-22s %-4s %-3s %+.4f\n", a, a.Symbol(), a.Glyph(), pitch.HalfTonesFromAccidental(a))
	}
	return nil
}

func runMidi(ctx context.Context, env *Env, args []string) error {
	fs := flag.NewFlagSet("midi", flag.ContinueOnError)
	fs.SetOutput(env.Out.w)
	channel := fs.Int("channel", 1, "midi channel 1-16")
	velocity := fs.Int("velocity", 100, "note on velocity 1-127")
	device := fs.Int("device", -1, "write events to midi device with given ID")
	duration := fs.Duration("duration", time.Millisecond*500, "note length when writing to device")
	err := fs.Parse(args)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUsage, err)
	}
	if *channel < 1 || *channel > 16 {
		return fmt.Errorf("%w: channel outside of 1-16 range: %d", ErrUsage, *channel)
	}
	if *velocity < 1 || *velocity > 127 {
		return fmt.Errorf("%w: velocity outside of 1-127 range: %d", ErrUsage, *velocity)
	}

	pitches, err := parsePitches(fs.Args())
	if err != nil {
		return err
	}

	ch := uint8(*channel - 1)
	var on, off []midi.Event
	for _, p := range pitches {
		events, err := midi.PitchEvents(ch, p, uint8(*velocity))
		if err != nil {
			return err
		}
		release, err := midi.ReleaseEvents(ch, p)
		if err != nil {
			return err
		}
		on = append(on, events...)
		off = append(off, release...)
	}

	if *device < 0 {
		for _, ev := range append(on, off...) {
			env.Out.Printf("% x  %s\n", []byte(ev), ev)
		}
		return nil
	}

	return playEvents(ctx, *device, on, off, *duration)
}

func playEvents(ctx context.Context, deviceID int, on, off []midi.Event, duration time.Duration) error {
	devices, err := midi.DetectDevices()
	if err != nil {
		return err
	}
	if deviceID >= len(devices) {
		return fmt.Errorf("MIDI device with \"%d\" ID does not exist, there is %d MIDI devices available in total", deviceID, len(devices))
	}

	fd, err := devices[deviceID].Open()
	if err != nil {
		return fmt.Errorf("failed to open MIDI device: %w", err)
	}
	defer fd.Close()

	var score midi.Score
	events := make(chan midi.Event, len(on)+len(off))
	for _, ev := range on {
		events <- ev
	}

	go func() {
		defer close(events)
		select {
		case <-ctx.Done():
		case <-time.After(duration):
		}
		for _, ev := range off {
			events <- ev
		}
	}()

	err = midi.ProcessMidiEvents(context.Background(), fd, events, &score)
	log.Info(fmt.Sprintf("notes played: %d, events emitted: %d", score.NotesPlayed, score.MidiEventsEmitted), logger.Info)
	return err
}

func printSet(env *Env, set pitchset.Set, setType pitchset.SetType) error {
	applied, err := set.Apply()
	if err != nil {
		return err
	}
	env.Out.Printf("%s %s\n", env.Out.Name(set.Name), env.Out.Label(fmt.Sprintf("(%s)", setType)))
	for i, p := range applied {
		env.Out.Printf("  %s", env.Out.Pitch(p, 6))
		if i > 0 {
			semitones := pitch.Interval(applied[i-1], p)
			env.Out.Printf(" %s", env.Out.Label(fmt.Sprintf("%+d %s", semitones, pitch.IntervalName(semitones))))
		}
		env.Out.Printf("\n")
	}
	return nil
}

func runSets(ctx context.Context, env *Env, args []string) error {
	sets, err := pitchset.LoadSets(env.Config.Sets.Root)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = sets.Names()
	}

	for _, name := range names {
		set, setType, err := sets.FindSet(name)
		if err != nil {
			return err
		}
		err = printSet(env, set, setType)
		if err != nil {
			return err
		}
	}
	return nil
}

func runWatch(ctx context.Context, env *Env, args []string) error {
	root := env.Config.Sets.Root
	dirs := []string{filepath.Join(root, pitchset.FactoryDir)}
	user := filepath.Join(root, pitchset.UserDir)
	if _, err := os.Stat(user); err == nil {
		dirs = append(dirs, user)
	}

	changes, err := pitchset.DetectSetChanges(ctx, dirs...)
	if err != nil {
		return err
	}

	err = runSets(ctx, env, nil)
	if err != nil {
		log.Info(fmt.Sprintf("loading sets failed: %v", err), logger.Error)
	}

	debounce := time.NewTimer(math.MaxInt64)
	defer debounce.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			debounce.Reset(time.Millisecond * 200)
		case <-debounce.C:
			env.Out.Println()
			err = runSets(ctx, env, nil)
			if err != nil {
				log.Info(fmt.Sprintf("loading sets failed: %v", err), logger.Error)
			}
		}
	}
}
