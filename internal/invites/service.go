package invites

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/db/models"
	"github.com/ghostlabs/ghostrank-backend/pkg/gateway"
)

// Service is the personal invite registry: at most one tracked invite per
// user, created lazily, replaced transparently when the platform copy is
// deleted out from under us.
type Service interface {
	GetOrCreate(ctx context.Context, userID string) (string, error)
	OwnerByCode(ctx context.Context, code string) (string, error)
	All(ctx context.Context) ([]models.PersonalInvite, error)
}

type service struct {
	repo      Repository
	source    gateway.InviteSource
	community config.CommunityConfig
	now       func() time.Time
}

// NewService wires a registry with its repository and the platform invite source.
func NewService(repo Repository, source gateway.InviteSource, community config.CommunityConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("invites repository required")
	}
	if source == nil {
		return nil, fmt.Errorf("invite source required")
	}
	return &service{
		repo:      repo,
		source:    source,
		community: community,
		now:       time.Now,
	}, nil
}

func (s *service) GetOrCreate(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id is required")
	}

	existing, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("look up invite for user %s: %w", userID, err)
	}

	if existing != nil {
		_, err := s.source.ResolveInvite(ctx, existing.InviteCode)
		if err == nil {
			return existing.InviteURL, nil
		}
		if !errors.Is(err, gateway.ErrInviteNotFound) {
			return "", fmt.Errorf("resolve invite %s: %w", existing.InviteCode, err)
		}
		// the platform copy is gone, mint a replacement below
	}

	created, err := s.source.CreateInvite(ctx, s.community.ID, s.community.InviteChannelID)
	if err != nil {
		return "", fmt.Errorf("create invite for user %s: %w", userID, err)
	}

	invite := &models.PersonalInvite{
		UserID:     userID,
		InviteCode: created.Code,
		InviteURL:  created.URL,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, invite); err != nil {
		return "", fmt.Errorf("persist invite for user %s: %w", userID, err)
	}

	return created.URL, nil
}

// OwnerByCode returns the user owning the tracked code, empty when nobody
// does.
func (s *service) OwnerByCode(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", fmt.Errorf("invite code is required")
	}

	invite, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return "", fmt.Errorf("look up owner of code %s: %w", code, err)
	}
	if invite == nil {
		return "", nil
	}
	return invite.UserID, nil
}

func (s *service) All(ctx context.Context) ([]models.PersonalInvite, error) {
	return s.repo.ListAll(ctx)
}
