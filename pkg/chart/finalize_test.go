package chart

import (
	"reflect"
	"testing"
)

func TestFinalizeNotesFields(t *testing.T) {
	raw := []RawNote{{Beats: 1.5, Key: 64, Line: 2, Layer: 2, Saber: SaberRight}}

	notes := FinalizeNotes(raw)
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}

	want := Note{Time: 1.5, LineIndex: 2, LineLayer: 2, Type: 1, CutDirection: CutUp}
	if notes[0] != want {
		t.Errorf("note = %+v, want %+v", notes[0], want)
	}
}

func TestFinalizeNotesDedupFirstWins(t *testing.T) {
	raw := []RawNote{
		{Beats: 2.0, Key: 60, Line: 0, Layer: 1, Saber: SaberLeft},
		{Beats: 2.0, Key: 61, Line: 0, Layer: 1, Saber: SaberRight}, // same cell
		{Beats: 2.0, Key: 62, Line: 2, Layer: 1, Saber: SaberRight}, // different line
	}

	notes := FinalizeNotes(raw)
	if len(notes) != 2 {
		t.Fatalf("expected 2 notes after dedup, got %d", len(notes))
	}
	if notes[0].Type != int(SaberLeft) {
		t.Errorf("first occupant of the cell should win, got type %d", notes[0].Type)
	}
	if notes[1].LineIndex != 2 {
		t.Errorf("non-colliding note dropped: %+v", notes)
	}
}

func TestFinalizeNotesDedupAfterRounding(t *testing.T) {
	// Distinct beat values that collapse onto the same grid cell once
	// rounded to 3 decimals.
	raw := []RawNote{
		{Beats: 1.23449, Line: 1, Layer: 1, Saber: SaberLeft},
		{Beats: 1.23441, Line: 1, Layer: 1, Saber: SaberRight},
	}

	notes := FinalizeNotes(raw)
	if len(notes) != 1 {
		t.Fatalf("expected 1 note after rounding collapse, got %d", len(notes))
	}
	if notes[0].Time != 1.234 || notes[0].Type != int(SaberLeft) {
		t.Errorf("note = %+v, want time 1.234 type 0", notes[0])
	}
}

func TestFinalizeNotesRoundHalfToEven(t *testing.T) {
	// Both inputs are exact binary fractions, so the scaled values hit
	// .5 exactly: 62.5 rounds down to the even 62, 187.5 up to 188.
	tests := []struct {
		beats    float64
		expected float64
	}{
		{0.0625, 0.062},
		{0.1875, 0.188},
	}

	for _, tt := range tests {
		notes := FinalizeNotes([]RawNote{{Beats: tt.beats, Line: 0, Layer: 0}})
		if len(notes) != 1 {
			t.Fatalf("expected 1 note, got %d", len(notes))
		}
		if notes[0].Time != tt.expected {
			t.Errorf("roundBeats(%v) = %v, want %v", tt.beats, notes[0].Time, tt.expected)
		}
	}
}

func TestFinalizeNotesDeterministic(t *testing.T) {
	raw := []RawNote{
		{Beats: 0.3333333333, Line: 0, Layer: 1, Saber: SaberLeft},
		{Beats: 0.6666666666, Line: 1, Layer: 1, Saber: SaberLeft},
		{Beats: 0.6666666666, Line: 1, Layer: 1, Saber: SaberRight},
		{Beats: 1.0000004999, Line: 2, Layer: 1, Saber: SaberRight},
	}

	first := FinalizeNotes(raw)
	second := FinalizeNotes(raw)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated runs differ:\n%+v\n%+v", first, second)
	}
}

func TestFinalizeNotesIdempotent(t *testing.T) {
	raw := []RawNote{
		{Beats: 0.0625, Line: 0, Layer: 0, Saber: SaberLeft},
		{Beats: 0.3333333333, Line: 0, Layer: 1, Saber: SaberLeft},
		{Beats: 0.6666666666, Line: 1, Layer: 1, Saber: SaberLeft},
		{Beats: 0.6666666666, Line: 1, Layer: 1, Saber: SaberRight},
		{Beats: 1.9995, Line: 2, Layer: 1, Saber: SaberRight},
	}

	first := FinalizeNotes(raw)

	// Feed the finalized list back in: already-rounded times and
	// already-unique cells must pass through untouched.
	again := make([]RawNote, len(first))
	for i, n := range first {
		again[i] = RawNote{
			Beats: n.Time,
			Line:  n.LineIndex,
			Layer: n.LineLayer,
			Saber: Saber(n.Type),
		}
	}

	second := FinalizeNotes(again)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second finalization changed the list:\n%+v\n%+v", first, second)
	}
}

func TestFinalizeNotesEmpty(t *testing.T) {
	notes := FinalizeNotes(nil)
	if len(notes) != 0 {
		t.Errorf("expected no notes, got %d", len(notes))
	}
	// empty, not nil, so it serializes as [] rather than null
	if notes == nil {
		t.Error("expected non-nil slice")
	}
}

func TestFinalizeNotesPreservesOrder(t *testing.T) {
	raw := []RawNote{
		{Beats: 0.5, Line: 0, Layer: 1},
		{Beats: 1.0, Line: 1, Layer: 1},
		{Beats: 1.5, Line: 2, Layer: 1},
	}

	notes := FinalizeNotes(raw)
	for i := 1; i < len(notes); i++ {
		if notes[i].Time < notes[i-1].Time {
			t.Fatalf("output order broken at %d: %+v", i, notes)
		}
	}
}
