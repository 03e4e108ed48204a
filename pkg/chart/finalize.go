package chart

import "math"

// Note is a finalized output note, serialized verbatim into difficulty
// .dat files.
type Note struct {
	Time         float64 `json:"_time"`
	LineIndex    int     `json:"_lineIndex"`
	LineLayer    int     `json:"_lineLayer"`
	Type         int     `json:"_type"` // 0 = left saber, 1 = right saber
	CutDirection int     `json:"_cutDirection"`
}

type gridKey struct {
	time  float64
	line  int
	layer int
}

// roundBeats rounds to 3 decimal places, half to even, so repeated runs
// over the same input are bit-identical.
func roundBeats(beats float64) float64 {
	return math.RoundToEven(beats*1000) / 1000
}

// FinalizeNotes rounds each candidate's beat time and drops any note
// whose (time, line, layer) cell is already taken: the first occurrence
// wins. The seen-set is local to this call, so concurrent conversions
// stay independent. Input order is preserved for surviving notes.
func FinalizeNotes(raw []RawNote) []Note {
	final := make([]Note, 0, len(raw))
	seen := make(map[gridKey]struct{}, len(raw))

	for _, rn := range raw {
		t := roundBeats(rn.Beats)
		key := gridKey{time: t, line: rn.Line, layer: rn.Layer}
		if _, taken := seen[key]; taken {
			continue
		}
		seen[key] = struct{}{}

		final = append(final, Note{
			Time:         t,
			LineIndex:    rn.Line,
			LineLayer:    rn.Layer,
			Type:         int(rn.Saber),
			CutDirection: CutUp,
		})
	}
	return final
}
