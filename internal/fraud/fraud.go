// Package fraud classifies an arriving member as plausibly real before any
// invite credit is granted. The classification is decided once, at join
// time, and stored on the ledger record.
package fraud

import (
	"regexp"
	"time"

	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/gateway"
)

// suspiciousNames are throwaway-account username shapes. A custom avatar
// overrides a match; the conjunction keeps false positives down.
var suspiciousNames = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^user\d{4,}$`),
	regexp.MustCompile(`(?i)^discord\d{4,}$`),
	regexp.MustCompile(`(?i)^guest\d{3,}$`),
	regexp.MustCompile(`(?i)^novo\d{3,}$`),
}

// Heuristic decides whether a join should count toward its inviter.
type Heuristic struct {
	minAccountAge time.Duration
	now           func() time.Time
}

func NewHeuristic(cfg config.TrackingConfig) *Heuristic {
	return &Heuristic{
		minAccountAge: time.Duration(cfg.MinAccountAgeDays) * 24 * time.Hour,
		now:           time.Now,
	}
}

// WithClock overrides the wall clock, for tests.
func (h *Heuristic) WithClock(now func() time.Time) *Heuristic {
	h.now = now
	return h
}

// IsReal reports whether the member looks like a genuine arrival.
func (h *Heuristic) IsReal(member gateway.Member) bool {
	if member.IsBot {
		return false
	}

	if h.minAccountAge > 0 {
		age := h.now().Sub(member.AccountCreatedAt)
		if age < h.minAccountAge {
			return false
		}
	}

	if hasSuspiciousName(member.Username) && !member.HasCustomAvatar {
		return false
	}

	return true
}

func hasSuspiciousName(username string) bool {
	for _, re := range suspiciousNames {
		if re.MatchString(username) {
			return true
		}
	}
	return false
}
