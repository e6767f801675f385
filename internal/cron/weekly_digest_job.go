package cron

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghostlabs/ghostrank-backend/internal/inviters"
	"github.com/ghostlabs/ghostrank-backend/internal/rank"
	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/gateway"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
	"go.uber.org/multierr"
)

type WeeklyDigestJobParams struct {
	Logger   *logger.Logger
	Counter  inviters.Service
	Notifier gateway.Notifier
	Digest   config.DigestConfig
}

// NewWeeklyDigestJob builds the job that messages each top inviter their
// current standing and progress.
func NewWeeklyDigestJob(params WeeklyDigestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Counter == nil {
		return nil, fmt.Errorf("inviters service required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	topSize := params.Digest.TopSize
	if topSize <= 0 {
		topSize = 10
	}
	return &weeklyDigestJob{
		logg:     params.Logger,
		counter:  params.Counter,
		notifier: params.Notifier,
		topSize:  topSize,
	}, nil
}

type weeklyDigestJob struct {
	logg     *logger.Logger
	counter  inviters.Service
	notifier gateway.Notifier
	topSize  int
}

func (j *weeklyDigestJob) Name() string { return "weekly-digest" }

func (j *weeklyDigestJob) Run(ctx context.Context) error {
	entries, err := j.counter.Leaderboard(ctx, j.topSize)
	if err != nil {
		return fmt.Errorf("weekly digest: %w", err)
	}
	if len(entries) == 0 {
		j.logg.Info(ctx, "weekly digest: no ranked inviters yet")
		return nil
	}

	delivered := 0
	var sendErrs error
	for position, entry := range entries {
		text := digestMessage(position+1, entry)
		if err := j.notifier.Notify(ctx, entry.InviterID, text); err != nil {
			// delivery is best-effort; a closed DM must not abort the digest
			sendErrs = multierr.Append(sendErrs,
				fmt.Errorf("notify %s: %w", entry.InviterID, err))
			continue
		}
		delivered++
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"ranked":    len(entries),
		"delivered": delivered,
	})
	if sendErrs != nil {
		j.logg.Warn(logCtx, "weekly digest finished with delivery failures")
	} else {
		j.logg.Info(logCtx, "weekly digest complete")
	}
	return nil
}

func digestMessage(position int, entry inviters.LeaderboardEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Weekly invite digest: you are #%d with %d real invites (%s).",
		position, entry.RealJoins, rank.TierFor(entry.RealJoins))

	next := rank.NextTierInfo(entry.RealJoins)
	if next.Tier != "" {
		fmt.Fprintf(&b, " %d more to reach %s.", next.Missing, next.Tier)
	}
	return b.String()
}
