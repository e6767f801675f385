package cron

import (
	"context"
	"errors"
	"fmt"

	"github.com/ghostlabs/ghostrank-backend/internal/invites"
	"github.com/ghostlabs/ghostrank-backend/pkg/gateway"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
)

type InviteAuditJobParams struct {
	Logger   *logger.Logger
	Registry invites.Service
	Source   gateway.InviteSource
}

// NewInviteAuditJob builds the job that re-mints tracked invites whose
// platform copy was deleted. Without it, attribution for an affected user
// silently stops until they next ask for their link.
func NewInviteAuditJob(params InviteAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Registry == nil {
		return nil, fmt.Errorf("invites service required")
	}
	if params.Source == nil {
		return nil, fmt.Errorf("invite source required")
	}
	return &inviteAuditJob{
		logg:     params.Logger,
		registry: params.Registry,
		source:   params.Source,
	}, nil
}

type inviteAuditJob struct {
	logg     *logger.Logger
	registry invites.Service
	source   gateway.InviteSource
}

func (j *inviteAuditJob) Name() string { return "invite-audit" }

func (j *inviteAuditJob) Run(ctx context.Context) error {
	tracked, err := j.registry.All(ctx)
	if err != nil {
		return fmt.Errorf("invite audit: %w", err)
	}

	checked, replaced := 0, 0
	for _, invite := range tracked {
		checked++
		_, err := j.source.ResolveInvite(ctx, invite.InviteCode)
		if err == nil {
			continue
		}
		if !errors.Is(err, gateway.ErrInviteNotFound) {
			// transient platform trouble; leave the row for the next run
			logCtx := j.logg.WithInviteCode(ctx, invite.InviteCode)
			j.logg.Warn(logCtx, "invite resolution failed, skipping")
			continue
		}

		// GetOrCreate re-resolves, sees the code is gone and mints a
		// replacement
		if _, err := j.registry.GetOrCreate(ctx, invite.UserID); err != nil {
			logCtx := j.logg.WithInviteCode(ctx, invite.InviteCode)
			j.logg.Error(logCtx, "stale invite replacement failed", err)
			continue
		}
		replaced++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"checked":  checked,
		"replaced": replaced,
	})
	j.logg.Info(logCtx, "invite audit complete")
	return nil
}
