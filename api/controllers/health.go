package controllers

import (
	"context"
	"net/http"

	"github.com/ghostlabs/ghostrank-backend/api/responses"
	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	pkgerrors "github.com/ghostlabs/ghostrank-backend/pkg/errors"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
)

// Pinger is anything whose connectivity the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GhostRank-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-GhostRank-Env", cfg.App.Env)
		ctx := r.Context()

		checks := map[string]Pinger{
			"db":    db,
			"redis": cache,
		}
		for name, dep := range checks {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
