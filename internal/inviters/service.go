package inviters

import (
	"context"
	"fmt"
)

// LeaderboardEntry is one inviter's position by real joins.
type LeaderboardEntry struct {
	InviterID string `json:"inviter_id"`
	RealJoins int    `json:"real_joins"`
}

// Service exposes the real-join counter per inviter.
type Service interface {
	Increment(ctx context.Context, inviterID string) error
	Decrement(ctx context.Context, inviterID string) error
	Get(ctx context.Context, inviterID string) (int, error)
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

type service struct {
	repo Repository
}

const defaultLeaderboardLimit = 10

// NewService wires an inviter-counter service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inviters repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Increment(ctx context.Context, inviterID string) error {
	if inviterID == "" {
		return fmt.Errorf("inviter id is required")
	}
	if err := s.repo.Increment(ctx, inviterID); err != nil {
		return fmt.Errorf("increment inviter %s: %w", inviterID, err)
	}
	return nil
}

func (s *service) Decrement(ctx context.Context, inviterID string) error {
	if inviterID == "" {
		return fmt.Errorf("inviter id is required")
	}
	if err := s.repo.Decrement(ctx, inviterID); err != nil {
		return fmt.Errorf("decrement inviter %s: %w", inviterID, err)
	}
	return nil
}

func (s *service) Get(ctx context.Context, inviterID string) (int, error) {
	if inviterID == "" {
		return 0, fmt.Errorf("inviter id is required")
	}
	return s.repo.Get(ctx, inviterID)
}

func (s *service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	rows, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, LeaderboardEntry{
			InviterID: row.InviterID,
			RealJoins: row.RealJoins,
		})
	}
	return entries, nil
}
