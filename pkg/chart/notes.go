package chart

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/beatforge/hero2saber/pkg/logger"
)

// RawNote is a mapped note-on before rounding and deduplication. Beats is
// the onset on the fixed dominant-BPM grid.
type RawNote struct {
	Beats float64
	Key   uint8 // original MIDI note number
	Line  int
	Layer int
	Saber Saber
}

// ReadChartFile reads and parses an SMF chart file.
func ReadChartFile(path string) (s *smf.SMF, e error) {
	// the smf reader can panic on truncated files
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			e = fmt.Errorf("failed to parse chart file: %v", r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart file: %w", err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, fmt.Errorf("failed to parse chart file: %w", err)
	}
	return res, nil
}

// CollectNotes walks every track, accumulates absolute ticks and turns
// each note-on with non-zero velocity into a RawNote via the layout
// table. Note numbers absent from the layout are skipped; note-offs are
// ignored entirely since only the onset matters for placement. The result
// is sorted ascending by beat time, ties keeping encounter order.
func CollectNotes(s *smf.SMF, tm TempoMap, layout Layout, dominantBPM float64) []RawNote {
	ticksPerQuarter := Resolution(s)

	var notes []RawNote
	for _, track := range s.Tracks {
		var absTick uint64
		for _, ev := range track {
			absTick += uint64(ev.Delta)

			var channel, key, velocity uint8
			if !ev.Message.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
				continue
			}

			placement, ok := layout[key]
			if !ok {
				logger.Debug("unmapped note number skipped",
					logger.Int("note", int(key)),
					logger.Uint64("tick", absTick))
				continue
			}

			notes = append(notes, RawNote{
				Beats: tm.BeatsAt(absTick, ticksPerQuarter, dominantBPM),
				Key:   key,
				Line:  placement.Line,
				Layer: placement.Layer,
				Saber: placement.Saber,
			})
		}
	}

	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Beats < notes[j].Beats
	})
	return notes
}
