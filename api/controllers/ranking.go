package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ghostlabs/ghostrank-backend/api/responses"
	"github.com/ghostlabs/ghostrank-backend/api/validators"
	"github.com/ghostlabs/ghostrank-backend/internal/inviters"
	"github.com/ghostlabs/ghostrank-backend/internal/tracker"
	pkgerrors "github.com/ghostlabs/ghostrank-backend/pkg/errors"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

const (
	rankingCacheTTL  = 30 * time.Second
	maxRankingLimit  = 100
	defaultRankLimit = 10
)

// leaderboardCache is the slice of pkg/redis.Client the ranking endpoint
// uses. Nil disables caching.
type leaderboardCache interface {
	CacheKey(parts ...string) string
	GetCached(ctx context.Context, key string) (string, error)
	SetCached(ctx context.Context, key, payload string, ttl time.Duration) error
}

// Ranking serves the public leaderboard, cached briefly in Redis since every
// dashboard poll hits it.
func Ranking(svc tracker.Service, cache leaderboardCache, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := rankingLimit(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		cacheKey := ""
		if cache != nil {
			cacheKey = cache.CacheKey("ranking", fmt.Sprintf("limit-%d", limit))
			if payload, err := cache.GetCached(ctx, cacheKey); err == nil {
				var entries []inviters.LeaderboardEntry
				if jsonErr := json.Unmarshal([]byte(payload), &entries); jsonErr == nil {
					responses.WriteSuccess(w, entries)
					return
				}
			} else if !errors.Is(err, redis.Nil) {
				logg.Warn(ctx, "leaderboard cache read failed")
			}
		}

		entries, err := svc.GetLeaderboard(ctx, limit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if cache != nil {
			if payload, jsonErr := json.Marshal(entries); jsonErr == nil {
				if err := cache.SetCached(ctx, cacheKey, string(payload), rankingCacheTTL); err != nil {
					logg.Warn(ctx, "leaderboard cache write failed")
				}
			}
		}

		responses.WriteSuccess(w, entries)
	}
}

// rankingLimit reads the limit from the route param when the path variant is
// hit, otherwise from the query string.
func rankingLimit(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "limit")
	if raw == "" {
		return validators.ParseQueryInt(r, "limit", defaultRankLimit, 1, maxRankingLimit)
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "limit must be numeric")
	}
	if value < 1 || value > maxRankingLimit {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "limit out of range").
			WithDetails(map[string]any{"min": 1, "max": maxRankingLimit})
	}
	return value, nil
}
