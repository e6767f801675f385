package enums

import "fmt"

// Tier names an invite-count band. Band boundaries live in internal/rank;
// this type only enumerates the canonical values.
type Tier string

const (
	TierNone     Tier = "NONE"
	TierBronze   Tier = "BRONZE"
	TierPrata    Tier = "PRATA"
	TierOuro     Tier = "OURO"
	TierPlatina  Tier = "PLATINA"
	TierDiamante Tier = "DIAMANTE"
)

var validTiers = []Tier{
	TierNone,
	TierBronze,
	TierPrata,
	TierOuro,
	TierPlatina,
	TierDiamante,
}

// IsValid reports whether the value matches the canonical tier enum.
func (t Tier) IsValid() bool {
	for _, candidate := range validTiers {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTier converts the raw string to Tier.
func ParseTier(value string) (Tier, error) {
	for _, candidate := range validTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tier %q", value)
}

// RankedTiers returns the rankable tiers in ascending order, NONE excluded.
func RankedTiers() []Tier {
	return []Tier{TierBronze, TierPrata, TierOuro, TierPlatina, TierDiamante}
}
