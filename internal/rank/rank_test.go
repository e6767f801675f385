package rank

import (
	"testing"

	"github.com/ghostlabs/ghostrank-backend/pkg/enums"
)

func TestTierForBoundaries(t *testing.T) {
	cases := []struct {
		joins int
		want  enums.Tier
	}{
		{-5, enums.TierNone},
		{0, enums.TierNone},
		{1, enums.TierBronze},
		{13, enums.TierBronze},
		{14, enums.TierPrata},
		{29, enums.TierPrata},
		{30, enums.TierOuro},
		{59, enums.TierOuro},
		{60, enums.TierPlatina},
		{99, enums.TierPlatina},
		{100, enums.TierDiamante},
		{2500, enums.TierDiamante},
	}

	for _, tc := range cases {
		if got := TierFor(tc.joins); got != tc.want {
			t.Errorf("TierFor(%d) = %s, want %s", tc.joins, got, tc.want)
		}
	}
}

func TestNextTierInfo(t *testing.T) {
	cases := []struct {
		joins       int
		wantTier    enums.Tier
		wantMissing int
	}{
		{0, enums.TierBronze, 1},
		{1, enums.TierPrata, 13},
		{13, enums.TierPrata, 1},
		{14, enums.TierOuro, 16},
		{59, enums.TierPlatina, 1},
		{99, enums.TierDiamante, 1},
		{100, "", 0},
		{500, "", 0},
	}

	for _, tc := range cases {
		got := NextTierInfo(tc.joins)
		if got.Tier != tc.wantTier || got.Missing != tc.wantMissing {
			t.Errorf("NextTierInfo(%d) = {%s %d}, want {%s %d}",
				tc.joins, got.Tier, got.Missing, tc.wantTier, tc.wantMissing)
		}
	}
}

func TestMinJoinsFor(t *testing.T) {
	if got := MinJoinsFor(enums.TierOuro); got != 30 {
		t.Errorf("MinJoinsFor(OURO) = %d, want 30", got)
	}
	if got := MinJoinsFor(enums.TierNone); got != 0 {
		t.Errorf("MinJoinsFor(NONE) = %d, want 0", got)
	}
}
