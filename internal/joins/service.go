package joins

import (
	"context"
	"fmt"
	"time"

	"github.com/ghostlabs/ghostrank-backend/pkg/db/models"
)

// Service is the idempotent join ledger. Records are written at most once
// per member and reversed at most once.
type Service interface {
	RecordJoin(ctx context.Context, input RecordJoinInput) (bool, error)
	TryReverse(ctx context.Context, memberID string, now time.Time, minStay time.Duration) (bool, error)
	Get(ctx context.Context, memberID string) (*models.JoinRecord, error)
}

type service struct {
	repo Repository
}

// RecordJoinInput captures the immutable data a join record requires.
// InviterID and InviteCode are nil when attribution failed.
type RecordJoinInput struct {
	MemberID    string
	InviterID   *string
	InviteCode  *string
	JoinedAt    time.Time
	CountedReal bool
}

// NewService wires a join ledger with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("joins repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordJoin(ctx context.Context, input RecordJoinInput) (bool, error) {
	if input.MemberID == "" {
		return false, fmt.Errorf("member id is required")
	}
	if input.JoinedAt.IsZero() {
		return false, fmt.Errorf("joined_at is required")
	}

	record := &models.JoinRecord{
		MemberID:    input.MemberID,
		InviterID:   input.InviterID,
		InviteCode:  input.InviteCode,
		JoinedAt:    input.JoinedAt,
		CountedReal: input.CountedReal,
	}

	applied, err := s.repo.Insert(ctx, record)
	if err != nil {
		return false, fmt.Errorf("record join for member %s: %w", input.MemberID, err)
	}
	return applied, nil
}

func (s *service) TryReverse(ctx context.Context, memberID string, now time.Time, minStay time.Duration) (bool, error) {
	if memberID == "" {
		return false, fmt.Errorf("member id is required")
	}
	if minStay <= 0 {
		// reversal window disabled
		return false, nil
	}

	// eligible only when the member joined inside the window ending now
	cutoff := now.Add(-minStay)
	reversed, err := s.repo.MarkReversed(ctx, memberID, cutoff)
	if err != nil {
		return false, fmt.Errorf("reverse join for member %s: %w", memberID, err)
	}
	return reversed, nil
}

func (s *service) Get(ctx context.Context, memberID string) (*models.JoinRecord, error) {
	if memberID == "" {
		return nil, fmt.Errorf("member id is required")
	}
	return s.repo.Get(ctx, memberID)
}
