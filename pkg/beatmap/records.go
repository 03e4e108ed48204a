package beatmap

import (
	"math"

	"github.com/beatforge/hero2saber/pkg/chart"
)

// MapVersion is the Beat Saber map schema version we emit.
const MapVersion = "2.0.0"

// Fixed per-difficulty defaults. Note jump speed could eventually vary by
// BPM or tier.
const (
	defaultNoteJumpSpeed   = 10
	defaultPreviewDuration = 10
)

// SongInfo is the subset of song metadata the output records need.
type SongInfo struct {
	Name           string
	Artist         string
	Album          string
	Charter        string
	PreviewStartMS int
}

// InfoDat is the summary record (info.dat) referencing every generated
// difficulty.
type InfoDat struct {
	Version                  string                 `json:"_version"`
	SongName                 string                 `json:"_songName"`
	SongSubName              string                 `json:"_songSubName"`
	SongAuthorName           string                 `json:"_songAuthorName"`
	LevelAuthorName          string                 `json:"_levelAuthorName"`
	BeatsPerMinute           float64                `json:"_beatsPerMinute"`
	SongTimeOffset           float64                `json:"_songTimeOffset"`
	Shuffle                  float64                `json:"_shuffle"`
	ShufflePeriod            float64                `json:"_shufflePeriod"`
	PreviewStartTime         float64                `json:"_previewStartTime"`
	PreviewDuration          float64                `json:"_previewDuration"`
	SongFilename             string                 `json:"_songFilename"`
	CoverImageFilename       string                 `json:"_coverImageFilename"`
	EnvironmentName          string                 `json:"_environmentName"`
	AllDirectionsEnvironment string                 `json:"_allDirectionsEnvironmentName"`
	SongPreviewAudioClipPath string                 `json:"_songPreviewAudioClipPath"`
	CustomData               map[string]any         `json:"_customData"`
	DifficultyBeatmapSets    []DifficultyBeatmapSet `json:"_difficultyBeatmapSets"`
}

// DifficultyBeatmapSet groups difficulties under one characteristic.
type DifficultyBeatmapSet struct {
	CharacteristicName string              `json:"_beatmapCharacteristicName"`
	DifficultyBeatmaps []DifficultyBeatmap `json:"_difficultyBeatmaps"`
}

// DifficultyBeatmap is one tier's entry in info.dat.
type DifficultyBeatmap struct {
	Difficulty              Tier           `json:"_difficulty"`
	DifficultyRank          int            `json:"_difficultyRank"`
	BeatmapFilename         string         `json:"_beatmapFilename"`
	NoteJumpMovementSpeed   float64        `json:"_noteJumpMovementSpeed"`
	NoteJumpStartBeatOffset float64        `json:"_noteJumpStartBeatOffset"`
	CustomData              map[string]any `json:"_customData"`
}

// DifficultyDat is one tier's note chart (Standard<Tier>.dat). The
// auxiliary collections are always present and empty; we generate notes
// only.
type DifficultyDat struct {
	Version           string         `json:"_version"`
	Notes             []chart.Note   `json:"_notes"`
	Obstacles         []any          `json:"_obstacles"`
	Events            []any          `json:"_events"`
	Waypoints         []any          `json:"_waypoints"`
	Bookmarks         []any          `json:"_bookmarks"`
	LightshowPortions []any          `json:"_lightshowPortions"`
	BPMEvents         []any          `json:"_bpmEvents"`
	CustomData        map[string]any `json:"_customData"`
}

// NewInfoDat builds the summary record with an empty beatmap set;
// Assemble fills in the per-tier entries.
func NewInfoDat(song SongInfo, audioFilename, coverFilename string, bpm float64) *InfoDat {
	charter := song.Charter
	if charter == "" {
		charter = "Unknown Charter"
	}

	return &InfoDat{
		Version:                  MapVersion,
		SongName:                 song.Name,
		SongSubName:              song.Album,
		SongAuthorName:           song.Artist,
		LevelAuthorName:          charter,
		BeatsPerMinute:           math.Round(bpm*100) / 100,
		SongTimeOffset:           0,
		Shuffle:                  0,
		ShufflePeriod:            0.5,
		PreviewStartTime:         float64(song.PreviewStartMS) / 1000.0,
		PreviewDuration:          defaultPreviewDuration,
		SongFilename:             audioFilename,
		CoverImageFilename:       coverFilename,
		EnvironmentName:          "DefaultEnvironment",
		AllDirectionsEnvironment: "DefaultEnvironment",
		SongPreviewAudioClipPath: audioFilename,
		CustomData:               map[string]any{},
		DifficultyBeatmapSets: []DifficultyBeatmapSet{
			{CharacteristicName: "Standard", DifficultyBeatmaps: []DifficultyBeatmap{}},
		},
	}
}

// NewDifficultyDat wraps a finalized note list in a difficulty record.
func NewDifficultyDat(notes []chart.Note) *DifficultyDat {
	if notes == nil {
		notes = []chart.Note{}
	}
	return &DifficultyDat{
		Version:           MapVersion,
		Notes:             notes,
		Obstacles:         []any{},
		Events:            []any{},
		Waypoints:         []any{},
		Bookmarks:         []any{},
		LightshowPortions: []any{},
		BPMEvents:         []any{},
		CustomData:        map[string]any{},
	}
}
