// Package tracker runs the invite-attribution pipeline: snapshot diffing,
// fraud classification, the idempotent join ledger, the per-inviter counter
// and tier-marker role sync.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghostlabs/ghostrank-backend/internal/fraud"
	"github.com/ghostlabs/ghostrank-backend/internal/inviters"
	"github.com/ghostlabs/ghostrank-backend/internal/invites"
	"github.com/ghostlabs/ghostrank-backend/internal/joins"
	"github.com/ghostlabs/ghostrank-backend/internal/rank"
	"github.com/ghostlabs/ghostrank-backend/internal/roles"
	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/enums"
	"github.com/ghostlabs/ghostrank-backend/pkg/gateway"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
	"github.com/ghostlabs/ghostrank-backend/pkg/metrics"
)

// Service is the event-facing surface of the attribution engine.
type Service interface {
	HandleEvent(ctx context.Context, event Event) Outcome
	GetRankSummary(ctx context.Context, userID string) (RankSummary, error)
	GetLeaderboard(ctx context.Context, limit int) ([]inviters.LeaderboardEntry, error)
	PersonalInviteURL(ctx context.Context, userID string) (string, error)
}

type service struct {
	session   *Session
	source    gateway.InviteSource
	directory gateway.MemberDirectory
	invites   invites.Service
	joins     joins.Service
	counter   inviters.Service
	heuristic *fraud.Heuristic
	executor  *roles.Executor
	tracking  config.TrackingConfig
	metrics   *metrics.TrackerMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// Deps bundles the collaborators the pipeline needs.
type Deps struct {
	Session   *Session
	Source    gateway.InviteSource
	Directory gateway.MemberDirectory
	Invites   invites.Service
	Joins     joins.Service
	Counter   inviters.Service
	Heuristic *fraud.Heuristic
	Executor  *roles.Executor
	Tracking  config.TrackingConfig
	Metrics   *metrics.TrackerMetrics
	Logger    *logger.Logger
}

// NewService wires the pipeline. Metrics may be nil; everything else is
// required.
func NewService(deps Deps) (Service, error) {
	switch {
	case deps.Session == nil:
		return nil, fmt.Errorf("tracker session required")
	case deps.Source == nil:
		return nil, fmt.Errorf("invite source required")
	case deps.Directory == nil:
		return nil, fmt.Errorf("member directory required")
	case deps.Invites == nil:
		return nil, fmt.Errorf("invites service required")
	case deps.Joins == nil:
		return nil, fmt.Errorf("joins service required")
	case deps.Counter == nil:
		return nil, fmt.Errorf("inviters service required")
	case deps.Heuristic == nil:
		return nil, fmt.Errorf("fraud heuristic required")
	case deps.Executor == nil:
		return nil, fmt.Errorf("role executor required")
	case deps.Logger == nil:
		return nil, fmt.Errorf("logger required")
	}

	return &service{
		session:   deps.Session,
		source:    deps.Source,
		directory: deps.Directory,
		invites:   deps.Invites,
		joins:     deps.Joins,
		counter:   deps.Counter,
		heuristic: deps.Heuristic,
		executor:  deps.Executor,
		tracking:  deps.Tracking,
		metrics:   deps.Metrics,
		logg:      deps.Logger,
		now:       time.Now,
	}, nil
}

// HandleEvent routes one event through the pipeline and reports the outcome.
// Errors never escape: a failing event is logged and counted, and processing
// of other events continues unaffected.
func (s *service) HandleEvent(ctx context.Context, event Event) Outcome {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.now().UTC()
	}

	ctx = s.logg.WithMemberID(ctx, event.MemberID)

	var outcome Outcome
	switch event.Kind {
	case enums.EventMemberArrived:
		outcome = s.handleArrival(ctx, event)
	case enums.EventMemberDeparted:
		outcome = s.handleDeparture(ctx, event)
	case enums.EventInspection:
		outcome = s.handleInspection(ctx, event)
	default:
		outcome = failed(enums.ReasonNone)
		s.logg.Error(ctx, fmt.Sprintf("unroutable event kind %q", event.Kind), nil)
	}

	s.metrics.IncOutcome(event.Kind, outcome.Status, outcome.Reason)

	ctx = s.logg.WithFields(ctx, map[string]any{
		"kind":   string(event.Kind),
		"status": string(outcome.Status),
		"reason": string(outcome.Reason),
	})
	if outcome.Status == enums.OutcomeFailed {
		s.logg.Warn(ctx, "event resolved with failure")
	} else {
		s.logg.Info(ctx, "event resolved")
	}

	return outcome
}

// handleArrival attributes the arrival to an inviter when the snapshot diff
// allows it, records the join exactly once, and credits the inviter when the
// member classifies as real. Unattributed arrivals still get a ledger row so
// duplicate deliveries stay idempotent.
func (s *service) handleArrival(ctx context.Context, event Event) Outcome {
	usage, err := s.source.FetchInviteUsage(ctx, s.session.CommunityID())
	if err != nil {
		if errors.Is(err, gateway.ErrTrackingUnavailable) {
			// no partial state: without a snapshot the session cannot even be
			// primed honestly
			return skipped(enums.ReasonTrackingUnavailable)
		}
		s.logg.Error(ctx, "snapshot fetch failed", err)
		return failed(enums.ReasonTrackingUnavailable)
	}

	code, hadBaseline := s.session.Observe(usage)

	var (
		inviterID  *string
		inviteCode *string
		reason     enums.OutcomeReason
	)

	switch {
	case !hadBaseline:
		reason = enums.ReasonNoPriorSnapshot
	case code == "":
		reason = enums.ReasonNoCodeResolved
	default:
		ctx = s.logg.WithInviteCode(ctx, code)
		owner, err := s.invites.OwnerByCode(ctx, code)
		if err != nil {
			s.logg.Error(ctx, "invite owner lookup failed", err)
			return failed(enums.ReasonStorageFailure)
		}
		if owner == "" {
			// a code this system never minted, likely a vanity or third-party
			// invite
			reason = enums.ReasonUnknownCode
		} else {
			inviterID = &owner
			inviteCode = &code
		}
	}

	countedReal := false
	if inviterID != nil {
		member, err := s.directory.GetMember(ctx, event.MemberID)
		if err != nil {
			s.logg.Error(ctx, "member lookup failed", err)
			return failed(enums.ReasonMemberLookupFailed)
		}
		countedReal = s.heuristic.IsReal(member)
		if !countedReal {
			reason = enums.ReasonNotCountedReal
		}
	}

	recorded, err := s.joins.RecordJoin(ctx, joins.RecordJoinInput{
		MemberID:    event.MemberID,
		InviterID:   inviterID,
		InviteCode:  inviteCode,
		JoinedAt:    event.OccurredAt,
		CountedReal: countedReal,
	})
	if err != nil {
		s.logg.Error(ctx, "ledger write failed", err)
		return failed(enums.ReasonStorageFailure)
	}
	if !recorded {
		return skipped(enums.ReasonDuplicateJoin)
	}

	if !countedReal {
		return skipped(reason)
	}

	if err := s.counter.Increment(ctx, *inviterID); err != nil {
		s.logg.Error(ctx, "counter increment failed", err)
		return failed(enums.ReasonStorageFailure)
	}

	s.syncInviterRoles(ctx, *inviterID)
	return applied()
}

// handleDeparture reverses the member's credit when they leave before the
// configured minimum stay, then decrements their inviter exactly once.
func (s *service) handleDeparture(ctx context.Context, event Event) Outcome {
	record, err := s.joins.Get(ctx, event.MemberID)
	if err != nil {
		s.logg.Error(ctx, "ledger read failed", err)
		return failed(enums.ReasonStorageFailure)
	}
	if record == nil {
		return skipped(enums.ReasonNoJoinRecord)
	}

	reversed, err := s.joins.TryReverse(ctx, event.MemberID, event.OccurredAt, s.tracking.MinStay())
	if err != nil {
		s.logg.Error(ctx, "reversal failed", err)
		return failed(enums.ReasonStorageFailure)
	}
	if !reversed {
		return skipped(enums.ReasonReversalIneligible)
	}

	if record.InviterID != nil {
		if err := s.counter.Decrement(ctx, *record.InviterID); err != nil {
			s.logg.Error(ctx, "counter decrement failed", err)
			return failed(enums.ReasonStorageFailure)
		}
		s.syncInviterRoles(ctx, *record.InviterID)
	}

	return applied()
}

// handleInspection re-derives the member's tier from the current count and
// re-applies the role delta. This is the self-heal trigger after a failed
// role mutation.
func (s *service) handleInspection(ctx context.Context, event Event) Outcome {
	count, err := s.counter.Get(ctx, event.MemberID)
	if err != nil {
		s.logg.Error(ctx, "counter read failed", err)
		return failed(enums.ReasonStorageFailure)
	}

	if _, err := s.executor.SyncRank(ctx, event.MemberID, count); err != nil {
		s.logg.Warn(ctx, "role sync skipped, member roles unreadable")
		return skipped(enums.ReasonMemberLookupFailed)
	}
	return applied()
}

// syncInviterRoles is best-effort: a failure is logged and the next
// join/leave/inspection touching the inviter re-derives the delta.
func (s *service) syncInviterRoles(ctx context.Context, inviterID string) {
	ctx = s.logg.WithInviterID(ctx, inviterID)

	count, err := s.counter.Get(ctx, inviterID)
	if err != nil {
		s.logg.Error(ctx, "counter read failed during role sync", err)
		return
	}
	if _, err := s.executor.SyncRank(ctx, inviterID, count); err != nil {
		s.logg.Error(ctx, "role sync incomplete", err)
	}
}

func (s *service) GetRankSummary(ctx context.Context, userID string) (RankSummary, error) {
	if userID == "" {
		return RankSummary{}, fmt.Errorf("user id is required")
	}

	count, err := s.counter.Get(ctx, userID)
	if err != nil {
		return RankSummary{}, fmt.Errorf("load rank for user %s: %w", userID, err)
	}

	next := rank.NextTierInfo(count)
	return RankSummary{
		UserID:   userID,
		Count:    count,
		Tier:     rank.TierFor(count),
		NextTier: next.Tier,
		Missing:  next.Missing,
	}, nil
}

func (s *service) GetLeaderboard(ctx context.Context, limit int) ([]inviters.LeaderboardEntry, error) {
	return s.counter.Leaderboard(ctx, limit)
}

func (s *service) PersonalInviteURL(ctx context.Context, userID string) (string, error) {
	return s.invites.GetOrCreate(ctx, userID)
}
