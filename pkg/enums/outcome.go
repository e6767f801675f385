package enums

// OutcomeStatus reports how the tracker pipeline resolved one event. Skips
// are ordinary control flow, not errors; the reason says why nothing was
// written.
type OutcomeStatus string

const (
	OutcomeApplied OutcomeStatus = "applied"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// IsValid reports whether the value matches the canonical outcome status enum.
func (o OutcomeStatus) IsValid() bool {
	switch o {
	case OutcomeApplied, OutcomeSkipped, OutcomeFailed:
		return true
	}
	return false
}

// OutcomeReason qualifies a skipped or failed outcome.
type OutcomeReason string

const (
	ReasonNone                OutcomeReason = ""
	ReasonTrackingUnavailable OutcomeReason = "tracking_unavailable"
	ReasonNoPriorSnapshot     OutcomeReason = "no_prior_snapshot"
	ReasonNoCodeResolved      OutcomeReason = "no_code_resolved"
	ReasonUnknownCode         OutcomeReason = "unknown_code"
	ReasonMemberLookupFailed  OutcomeReason = "member_lookup_failed"
	ReasonDuplicateJoin       OutcomeReason = "duplicate_join"
	ReasonNotCountedReal      OutcomeReason = "not_counted_real"
	ReasonNoJoinRecord        OutcomeReason = "no_join_record"
	ReasonReversalIneligible  OutcomeReason = "reversal_ineligible"
	ReasonStorageFailure      OutcomeReason = "storage_failure"
)
