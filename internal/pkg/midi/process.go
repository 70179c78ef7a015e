package midi

import (
	"context"
	"fmt"
	"io"

	"github.com/gethiox/notepitch/internal/pkg/logger"
)

var log = logger.GetLogger()

type Score struct {
	NotesPlayed       uint
	MidiEventsEmitted uint
}

// ProcessMidiEvents writes incoming events to w until events channel is closed
// or ctx is done.
func ProcessMidiEvents(ctx context.Context, w io.Writer, events <-chan Event, score *Score) error {
root:
	for {
		var ev Event
		var ok bool
		select {
		case <-ctx.Done():
			break root
		case ev, ok = <-events:
			if !ok {
				break root
			}
		}

		if len(ev) == 0 {
			log.Info("skipping empty midi event", logger.Warning)
			continue
		}
		if ev[0]&0b11110000 == NoteOn {
			score.NotesPlayed++
		}

		_, err := w.Write(ev)
		if err != nil {
			return fmt.Errorf("failed to write midi event: %w", err)
		}
		score.MidiEventsEmitted++
		log.Info(fmt.Sprintf("midi event: %s (%#v)", ev.Message().String(), []byte(ev)), logger.Debug)
	}

	log.Info("Processing output midi events stopped", logger.Debug)
	return nil
}
