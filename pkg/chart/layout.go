package chart

// Saber selects which saber a note is cut with.
type Saber int

const (
	SaberLeft  Saber = 0 // red
	SaberRight Saber = 1 // blue
)

// Cut directions as used by the output format. Only CutUp is emitted for
// now; varying the direction by context is a possible refinement.
const (
	CutUp = 0
)

// Placement is one slot in the output note grid: lane (0 = leftmost,
// 3 = rightmost), layer (0 = bottom, 2 = top) and the saber hint.
type Placement struct {
	Line  int
	Layer int
	Saber Saber
}

// Layout maps source MIDI note numbers to grid placements. It is the one
// piece of domain knowledge most likely to need extension (more note
// numbers, alternate arrangements), so it is data rather than logic:
// callers may supply their own table.
type Layout map[uint8]Placement

// StandardLayout covers the common 5-fret guitar lanes plus the usual
// drum pads. Guitar: Green=60 Red=61 Yellow=62 Blue=63 Orange=64; green
// and red go to the left saber, the rest to the right. Orange sits on the
// top layer so it doesn't collide with Red's column.
func StandardLayout() Layout {
	return Layout{
		// guitar / bass
		60: {Line: 0, Layer: 1, Saber: SaberLeft},
		61: {Line: 1, Layer: 1, Saber: SaberLeft},
		62: {Line: 2, Layer: 1, Saber: SaberRight},
		63: {Line: 3, Layer: 1, Saber: SaberRight},
		64: {Line: 2, Layer: 2, Saber: SaberRight},

		// drums (common GH/RB pad numbering)
		36: {Line: 0, Layer: 0, Saber: SaberLeft},  // kick
		38: {Line: 1, Layer: 0, Saber: SaberLeft},  // snare
		40: {Line: 1, Layer: 2, Saber: SaberLeft},  // rimshot
		42: {Line: 2, Layer: 0, Saber: SaberRight}, // closed hi-hat
		46: {Line: 3, Layer: 0, Saber: SaberRight}, // open hi-hat
		48: {Line: 2, Layer: 2, Saber: SaberRight}, // high tom
		50: {Line: 3, Layer: 2, Saber: SaberRight}, // crash
	}
}
