package roles

import (
	"context"
	"fmt"

	"github.com/ghostlabs/ghostrank-backend/internal/rank"
	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/gateway"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
	"go.uber.org/multierr"
)

// Executor applies tier-marker deltas against the platform. Mutation
// failures are logged and swallowed; the next sync trigger re-derives the
// delta and retries implicitly.
type Executor struct {
	mutator gateway.RoleMutator
	roles   config.RolesConfig
	logg    *logger.Logger
}

func NewExecutor(mutator gateway.RoleMutator, roles config.RolesConfig, logg *logger.Logger) (*Executor, error) {
	if mutator == nil {
		return nil, fmt.Errorf("role mutator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Executor{mutator: mutator, roles: roles, logg: logg}, nil
}

// SyncRank reads the member's current roles, diffs against the tier implied
// by realJoins, and applies the delta. Returns the delta it attempted so
// callers can observe idempotency.
func (e *Executor) SyncRank(ctx context.Context, userID string, realJoins int) (Delta, error) {
	if userID == "" {
		return Delta{}, fmt.Errorf("user id is required")
	}

	current, err := e.mutator.MemberRoles(ctx, userID)
	if err != nil {
		return Delta{}, fmt.Errorf("read roles for user %s: %w", userID, err)
	}

	target := e.roles.RoleIDFor(rank.TierFor(realJoins))
	delta := Diff(current, e.roles.All(), target)
	if delta.Empty() {
		return delta, nil
	}

	e.Apply(ctx, userID, delta)
	return delta, nil
}

// Apply issues the add/remove calls. Each side may fail independently; both
// failures are logged, neither is returned to the caller.
func (e *Executor) Apply(ctx context.Context, userID string, delta Delta) {
	var errs error
	if len(delta.ToRemove) > 0 {
		if err := e.mutator.RemoveRoles(ctx, userID, delta.ToRemove); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove roles: %w", err))
		}
	}
	if len(delta.ToAdd) > 0 {
		if err := e.mutator.AddRoles(ctx, userID, delta.ToAdd); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("add roles: %w", err))
		}
	}

	if errs != nil {
		ctx = e.logg.WithFields(ctx, map[string]any{
			"user_id":   userID,
			"to_add":    delta.ToAdd,
			"to_remove": delta.ToRemove,
		})
		e.logg.Error(ctx, "role sync incomplete, will self-heal on next trigger", errs)
	}
}
