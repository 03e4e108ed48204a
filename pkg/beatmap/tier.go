// Package beatmap builds and writes Beat Saber map records.
package beatmap

import (
	"sort"

	"github.com/beatforge/hero2saber/pkg/logger"
)

// Tier is one of the output format's fixed difficulty levels.
type Tier string

const (
	TierEasy       Tier = "Easy"
	TierNormal     Tier = "Normal"
	TierHard       Tier = "Hard"
	TierExpert     Tier = "Expert"
	TierExpertPlus Tier = "ExpertPlus"
)

// tierOrder is the ranking used for _difficultyRank and generation order.
var tierOrder = []Tier{TierEasy, TierNormal, TierHard, TierExpert, TierExpertPlus}

// DefaultTier is generated when a song declares no mappable difficulties.
const DefaultTier = TierExpert

// Rank returns the tier's position in the fixed ordering, or -1 for an
// unknown tier.
func (t Tier) Rank() int {
	for i, known := range tierOrder {
		if t == known {
			return i
		}
	}
	return -1
}

// ParseTier resolves a configured tier name. "Expert+" is accepted as a
// legacy spelling of ExpertPlus.
func ParseTier(name string) (Tier, bool) {
	if name == "Expert+" {
		return TierExpertPlus, true
	}
	t := Tier(name)
	if t.Rank() < 0 {
		return "", false
	}
	return t, true
}

// SelectTiers translates each instrument's raw difficulty number through
// the configured table and collects the distinct resulting tiers, sorted
// by rank. Unmapped numbers produce a warning, never a failure. An empty
// result falls back to the single default tier.
func SelectTiers(difficulties map[string]int, table map[int]string) []Tier {
	set := make(map[Tier]struct{})
	for instrument, raw := range difficulties {
		name, ok := table[raw]
		if !ok {
			logger.Warn("no tier mapping for difficulty value",
				logger.Int("value", raw),
				logger.String("instrument", instrument))
			continue
		}
		tier, ok := ParseTier(name)
		if !ok {
			logger.Warn("configured tier name is not a known tier",
				logger.String("name", name),
				logger.String("instrument", instrument))
			continue
		}
		set[tier] = struct{}{}
	}

	if len(set) == 0 {
		return []Tier{DefaultTier}
	}

	tiers := make([]Tier, 0, len(set))
	for t := range set {
		tiers = append(tiers, t)
	}
	sort.Slice(tiers, func(i, j int) bool {
		return tiers[i].Rank() < tiers[j].Rank()
	})
	return tiers
}
