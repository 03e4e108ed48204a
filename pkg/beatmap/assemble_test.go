package beatmap

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/beatforge/hero2saber/pkg/chart"
)

// memWriter collects written records in memory.
type memWriter struct {
	difficulties map[string]*DifficultyDat
	info         *InfoDat
}

func newMemWriter() *memWriter {
	return &memWriter{difficulties: make(map[string]*DifficultyDat)}
}

func (w *memWriter) WriteDifficulty(filename string, dat *DifficultyDat) error {
	w.difficulties[filename] = dat
	return nil
}

func (w *memWriter) WriteInfo(dat *InfoDat) error {
	w.info = dat
	return nil
}

// failWriter fails when writing the named difficulty file.
type failWriter struct {
	memWriter
	failOn string
}

func (w *failWriter) WriteDifficulty(filename string, dat *DifficultyDat) error {
	if filename == w.failOn {
		return errors.New("disk full")
	}
	return w.memWriter.WriteDifficulty(filename, dat)
}

func testInfo() *InfoDat {
	return NewInfoDat(SongInfo{Name: "Song", Artist: "Artist"}, "song.ogg", "cover.jpg", 120)
}

func testNotes() []chart.Note {
	return []chart.Note{
		{Time: 1, LineIndex: 0, LineLayer: 1, Type: 0, CutDirection: 0},
		{Time: 2, LineIndex: 2, LineLayer: 1, Type: 1, CutDirection: 0},
	}
}

func TestDifficultyFilename(t *testing.T) {
	if got := DifficultyFilename(TierExpertPlus); got != "StandardExpertPlus.dat" {
		t.Errorf("DifficultyFilename() = %q, want StandardExpertPlus.dat", got)
	}
}

func TestAssemble(t *testing.T) {
	info := testInfo()
	w := newMemWriter()
	tiers := []Tier{TierNormal, TierExpert}

	if err := Assemble(info, tiers, testNotes(), w); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	if len(w.difficulties) != 2 {
		t.Fatalf("expected 2 difficulty files, got %d", len(w.difficulties))
	}
	for _, filename := range []string{"StandardNormal.dat", "StandardExpert.dat"} {
		dat, ok := w.difficulties[filename]
		if !ok {
			t.Fatalf("%s not written", filename)
		}
		if len(dat.Notes) != 2 {
			t.Errorf("%s has %d notes, want 2", filename, len(dat.Notes))
		}
		if dat.Version != MapVersion {
			t.Errorf("%s version = %q, want %q", filename, dat.Version, MapVersion)
		}
	}

	if w.info == nil {
		t.Fatal("info.dat not written")
	}
	maps := w.info.DifficultyBeatmapSets[0].DifficultyBeatmaps
	if len(maps) != 2 {
		t.Fatalf("expected 2 registered beatmaps, got %d", len(maps))
	}
	if maps[0].Difficulty != TierNormal || maps[0].DifficultyRank != 1 {
		t.Errorf("first beatmap = %+v, want Normal rank 1", maps[0])
	}
	if maps[1].Difficulty != TierExpert || maps[1].BeatmapFilename != "StandardExpert.dat" {
		t.Errorf("second beatmap = %+v", maps[1])
	}
}

func TestAssemblePartialFailure(t *testing.T) {
	info := testInfo()
	w := &failWriter{memWriter: *newMemWriter(), failOn: "StandardExpert.dat"}
	tiers := []Tier{TierNormal, TierExpert, TierExpertPlus}

	err := Assemble(info, tiers, testNotes(), w)
	if err == nil {
		t.Fatal("expected an error")
	}

	var partial *PartialWriteError
	if !errors.As(err, &partial) {
		t.Fatalf("error %v is not a PartialWriteError", err)
	}
	if partial.FailedTier != TierExpert {
		t.Errorf("FailedTier = %s, want Expert", partial.FailedTier)
	}
	if len(partial.Written) != 1 || partial.Written[0] != TierNormal {
		t.Errorf("Written = %v, want [Normal]", partial.Written)
	}

	// Nothing after the failure was written, including info.dat.
	if _, ok := w.difficulties["StandardExpertPlus.dat"]; ok {
		t.Error("tier after the failure was still written")
	}
	if w.info != nil {
		t.Error("info.dat written despite the failure")
	}
}

func TestNewInfoDat(t *testing.T) {
	info := NewInfoDat(SongInfo{
		Name:           "Through the Fire",
		Artist:         "DragonForce",
		Album:          "Inhuman Rampage",
		Charter:        "harmonix",
		PreviewStartMS: 25500,
	}, "song.ogg", "cover.jpg", 200.004)

	if info.Version != MapVersion {
		t.Errorf("version = %q, want %q", info.Version, MapVersion)
	}
	if info.SongName != "Through the Fire" || info.SongAuthorName != "DragonForce" {
		t.Errorf("song fields wrong: %+v", info)
	}
	if info.SongSubName != "Inhuman Rampage" {
		t.Errorf("subname = %q, want the album", info.SongSubName)
	}
	if info.LevelAuthorName != "harmonix" {
		t.Errorf("charter = %q", info.LevelAuthorName)
	}
	if info.BeatsPerMinute != 200.0 {
		t.Errorf("BPM = %v, want 200.0 (rounded to 2 decimals)", info.BeatsPerMinute)
	}
	if info.PreviewStartTime != 25.5 {
		t.Errorf("preview start = %v, want 25.5s", info.PreviewStartTime)
	}
	if info.SongFilename != "song.ogg" || info.CoverImageFilename != "cover.jpg" {
		t.Errorf("asset filenames wrong: %+v", info)
	}
	if len(info.DifficultyBeatmapSets) != 1 || info.DifficultyBeatmapSets[0].CharacteristicName != "Standard" {
		t.Errorf("beatmap sets = %+v", info.DifficultyBeatmapSets)
	}
	if len(info.DifficultyBeatmapSets[0].DifficultyBeatmaps) != 0 {
		t.Error("new info record should start with no registered beatmaps")
	}
}

func TestNewInfoDatCharterFallback(t *testing.T) {
	info := NewInfoDat(SongInfo{Name: "Song", Artist: "Artist"}, "song.ogg", "", 120)
	if info.LevelAuthorName != "Unknown Charter" {
		t.Errorf("charter fallback = %q, want Unknown Charter", info.LevelAuthorName)
	}
}

func TestNewDifficultyDatNilNotes(t *testing.T) {
	dat := NewDifficultyDat(nil)

	data, err := json.Marshal(dat)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}

	// Every collection serializes as [], never null.
	for _, key := range []string{"_notes", "_obstacles", "_events", "_waypoints"} {
		v, ok := decoded[key]
		if !ok {
			t.Errorf("%s missing from output", key)
			continue
		}
		arr, ok := v.([]any)
		if !ok || arr == nil {
			t.Errorf("%s = %v, want an empty array", key, v)
		}
	}
}
