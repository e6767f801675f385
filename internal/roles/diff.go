// Package roles keeps a member's tier-marker roles in line with their tier.
// The delta computation is pure; a separate executor applies it against the
// platform, best-effort.
package roles

// Delta is the role mutation implied by a tier change. Empty slices mean the
// member is already in the right state.
type Delta struct {
	ToAdd    []string
	ToRemove []string
}

// Empty reports whether applying the delta would be a no-op.
func (d Delta) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0
}

// Diff computes the delta between a member's current role set and the single
// tier-marker role their tier implies. markerRoles is the full set of roles
// this system manages; targetRoleID is empty when the tier is NONE.
//
// Re-running Diff on an unchanged role set yields an empty delta.
func Diff(currentRoles []string, markerRoles []string, targetRoleID string) Delta {
	current := make(map[string]bool, len(currentRoles))
	for _, id := range currentRoles {
		current[id] = true
	}

	var delta Delta
	for _, marker := range markerRoles {
		if marker != targetRoleID && current[marker] {
			delta.ToRemove = append(delta.ToRemove, marker)
		}
	}
	if targetRoleID != "" && !current[targetRoleID] {
		delta.ToAdd = append(delta.ToAdd, targetRoleID)
	}
	return delta
}
