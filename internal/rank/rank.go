// Package rank derives invite tiers from real-join counts. Everything here
// is pure; persistence and role mutation live elsewhere.
package rank

import "github.com/ghostlabs/ghostrank-backend/pkg/enums"

// band is a half-open interval [Min, next.Min) of real joins.
type band struct {
	Tier enums.Tier
	Min  int
}

// bands in ascending order. TierFor walks them from the top.
var bands = []band{
	{Tier: enums.TierBronze, Min: 1},
	{Tier: enums.TierPrata, Min: 14},
	{Tier: enums.TierOuro, Min: 30},
	{Tier: enums.TierPlatina, Min: 60},
	{Tier: enums.TierDiamante, Min: 100},
}

// TierFor maps a real-join count to its tier. Counts below the lowest band
// (including negatives, which storage never produces) map to NONE.
func TierFor(realJoins int) enums.Tier {
	for i := len(bands) - 1; i >= 0; i-- {
		if realJoins >= bands[i].Min {
			return bands[i].Tier
		}
	}
	return enums.TierNone
}

// MinJoinsFor returns the lower bound of the given tier's band. NONE and
// unknown values return 0.
func MinJoinsFor(tier enums.Tier) int {
	for _, b := range bands {
		if b.Tier == tier {
			return b.Min
		}
	}
	return 0
}

// NextTier describes progress toward the next band.
type NextTier struct {
	Tier    enums.Tier // empty when already at the top band
	Missing int        // joins still needed, 0 when at the top
}

// NextTierInfo reports which tier comes after the count's current band and
// how many more real joins reach it. At DIAMANTE there is no next band.
func NextTierInfo(realJoins int) NextTier {
	for _, b := range bands {
		if realJoins < b.Min {
			return NextTier{Tier: b.Tier, Missing: b.Min - realJoins}
		}
	}
	return NextTier{}
}
