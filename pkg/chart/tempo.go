package chart

import (
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	// DefaultUSPerBeat is the implicit SMF tempo (120 BPM) used until an
	// explicit set_tempo event is seen.
	DefaultUSPerBeat uint32 = 500000

	// DefaultTicksPerQuarter is assumed when a file carries a non-metric
	// time format.
	DefaultTicksPerQuarter uint16 = 480
)

// TempoEvent is one entry of a tempo map: from AbsTick onward the song
// runs at USPerBeat microseconds per quarter note.
type TempoEvent struct {
	AbsTick   uint64
	USPerBeat uint32
	BPM       float64
}

// TempoMap is an ordered tick->tempo table. A valid map is non-empty,
// starts at tick 0, is strictly increasing by tick and never has two
// adjacent entries with the same tempo.
type TempoMap []TempoEvent

// TempoToBPM converts microseconds-per-beat to beats-per-minute.
func TempoToBPM(usPerBeat uint32) float64 {
	return 60000000.0 / float64(usPerBeat)
}

// tempoMeta reports whether msg is a set_tempo meta event (FF 51 03) and
// returns its microseconds-per-beat value.
func tempoMeta(msg smf.Message) (uint32, bool) {
	if len(msg) < 6 || msg[0] != 0xFF || msg[1] != 0x51 || msg[2] != 0x03 {
		return 0, false
	}
	us := uint32(msg[3])<<16 | uint32(msg[4])<<8 | uint32(msg[5])
	if us == 0 {
		return 0, false
	}
	return us, true
}

// Resolution returns the file's ticks-per-quarter-note, falling back to
// DefaultTicksPerQuarter for non-metric time formats.
func Resolution(s *smf.SMF) uint16 {
	if mt, ok := s.TimeFormat.(smf.MetricTicks); ok {
		return mt.Resolution()
	}
	return DefaultTicksPerQuarter
}

// BuildTempoMap scans every track for set_tempo events and produces the
// merged global tempo map. Tempo changes are a global concept, so events
// from all tracks are collected before sorting. Same-tick conflicts are
// resolved last-encountered-wins; the implicit 120 BPM entry at tick 0 is
// kept unless an explicit event at tick 0 overrides it.
func BuildTempoMap(s *smf.SMF) TempoMap {
	var candidates []TempoEvent
	for _, track := range s.Tracks {
		var absTick uint64
		for _, ev := range track {
			absTick += uint64(ev.Delta)
			if us, ok := tempoMeta(ev.Message); ok {
				candidates = append(candidates, TempoEvent{
					AbsTick:   absTick,
					USPerBeat: us,
					BPM:       TempoToBPM(us),
				})
			}
		}
	}

	// Stable keeps encounter order among same-tick events so the last
	// one encountered wins below.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].AbsTick < candidates[j].AbsTick
	})

	tm := TempoMap{{AbsTick: 0, USPerBeat: DefaultUSPerBeat, BPM: TempoToBPM(DefaultUSPerBeat)}}
	for _, c := range candidates {
		last := len(tm) - 1
		switch {
		case c.AbsTick == 0:
			tm[0] = c
		case c.AbsTick == tm[last].AbsTick:
			if last > 0 && tm[last-1].USPerBeat == c.USPerBeat {
				// overriding makes this entry redundant with the
				// previous segment
				tm = tm[:last]
			} else {
				tm[last] = c
			}
		case c.USPerBeat != tm[last].USPerBeat:
			tm = append(tm, c)
		}
	}
	return tm
}

// SecondsAt converts an absolute tick to elapsed seconds since tick 0,
// accumulating each tempo segment's duration. Ticks past the last entry
// extrapolate with the last known tempo.
func (tm TempoMap) SecondsAt(tick uint64, ticksPerQuarter uint16) float64 {
	if len(tm) == 0 || ticksPerQuarter == 0 {
		return 0
	}

	seconds := 0.0
	lastTick := uint64(0)
	lastUS := tm[0].USPerBeat

	for _, te := range tm {
		if tick < te.AbsTick {
			return seconds + float64(tick-lastTick)/float64(ticksPerQuarter)*float64(lastUS)/1e6
		}
		seconds += float64(te.AbsTick-lastTick) / float64(ticksPerQuarter) * float64(lastUS) / 1e6
		lastTick = te.AbsTick
		lastUS = te.USPerBeat
	}

	return seconds + float64(tick-lastTick)/float64(ticksPerQuarter)*float64(lastUS)/1e6
}

// DominantBPM is the single reference tempo used to place notes on the
// output's fixed-BPM beat grid: the tempo in effect at tick 0. Beat Saber
// wants one BPM in info.dat even though the source may change tempo.
func (tm TempoMap) DominantBPM() float64 {
	if len(tm) == 0 {
		return 120.0
	}
	return tm[0].BPM
}

// BeatsAt converts an absolute tick to a beat number on the fixed grid
// running at dominantBPM. Elapsed time is tempo-correct; only the final
// seconds->beats step uses the single reference tempo.
func (tm TempoMap) BeatsAt(tick uint64, ticksPerQuarter uint16, dominantBPM float64) float64 {
	return tm.SecondsAt(tick, ticksPerQuarter) * dominantBPM / 60.0
}
