package beatmap

import (
	"fmt"

	"github.com/beatforge/hero2saber/pkg/chart"
	"github.com/beatforge/hero2saber/pkg/logger"
)

// PartialWriteError reports that assembly stopped partway: tiers in
// Written are on disk and intact, FailedTier and everything after it were
// not generated.
type PartialWriteError struct {
	FailedTier Tier
	Written    []Tier
	Err        error
}

func (e *PartialWriteError) Error() string {
	return fmt.Sprintf("writing tier %s failed after %d tier(s) were written: %v",
		e.FailedTier, len(e.Written), e.Err)
}

func (e *PartialWriteError) Unwrap() error {
	return e.Err
}

// DifficultyFilename names one tier's .dat file.
func DifficultyFilename(tier Tier) string {
	return fmt.Sprintf("Standard%s.dat", tier)
}

// Assemble generates one difficulty record per tier (in the given order,
// expected sorted by rank), writes each through w and registers it in the
// info record, then writes info.dat. Every tier receives the identical
// note list; no per-tier thinning is done yet. The first write failure
// aborts the remaining tiers and surfaces as a PartialWriteError.
func Assemble(info *InfoDat, tiers []Tier, notes []chart.Note, w Writer) error {
	var written []Tier
	for _, tier := range tiers {
		filename := DifficultyFilename(tier)
		if err := w.WriteDifficulty(filename, NewDifficultyDat(notes)); err != nil {
			return &PartialWriteError{FailedTier: tier, Written: written, Err: err}
		}

		info.DifficultyBeatmapSets[0].DifficultyBeatmaps = append(
			info.DifficultyBeatmapSets[0].DifficultyBeatmaps,
			DifficultyBeatmap{
				Difficulty:              tier,
				DifficultyRank:          tier.Rank(),
				BeatmapFilename:         filename,
				NoteJumpMovementSpeed:   defaultNoteJumpSpeed,
				NoteJumpStartBeatOffset: 0,
				CustomData:              map[string]any{},
			})
		written = append(written, tier)
		logger.Debug("difficulty written",
			logger.String("tier", string(tier)),
			logger.Int("notes", len(notes)))
	}

	if err := w.WriteInfo(info); err != nil {
		return fmt.Errorf("failed to write info.dat: %w", err)
	}
	return nil
}
