package tracker

import (
	"time"

	"github.com/ghostlabs/ghostrank-backend/pkg/enums"
)

// Event is one inbound platform signal routed through the pipeline. The
// platform delivers these concurrently with no cross-member ordering.
type Event struct {
	Kind       enums.EventKind `json:"kind" validate:"required"`
	MemberID   string          `json:"member_id" validate:"required"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Outcome reports how the pipeline resolved one event. A skip is ordinary
// control flow; only Failed indicates something went wrong.
type Outcome struct {
	Status enums.OutcomeStatus `json:"status"`
	Reason enums.OutcomeReason `json:"reason,omitempty"`
}

func applied() Outcome {
	return Outcome{Status: enums.OutcomeApplied}
}

func skipped(reason enums.OutcomeReason) Outcome {
	return Outcome{Status: enums.OutcomeSkipped, Reason: reason}
}

func failed(reason enums.OutcomeReason) Outcome {
	return Outcome{Status: enums.OutcomeFailed, Reason: reason}
}

// RankSummary is the read-model for one user's standing.
type RankSummary struct {
	UserID   string     `json:"user_id"`
	Count    int        `json:"count"`
	Tier     enums.Tier `json:"tier"`
	NextTier enums.Tier `json:"next_tier,omitempty"`
	Missing  int        `json:"missing"`
}
