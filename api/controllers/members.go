package controllers

import (
	"net/http"

	"github.com/ghostlabs/ghostrank-backend/api/responses"
	"github.com/ghostlabs/ghostrank-backend/internal/tracker"
	pkgerrors "github.com/ghostlabs/ghostrank-backend/pkg/errors"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// MemberRank serves one member's count, tier and progress.
func MemberRank(svc tracker.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := chi.URLParam(r, "userID")
		if userID == "" {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}

		summary, err := svc.GetRankSummary(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// MemberInvite returns the member's personal invite link, minting one on
// first request.
func MemberInvite(svc tracker.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := chi.URLParam(r, "userID")
		if userID == "" {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "user id is required"))
			return
		}

		url, err := svc.PersonalInviteURL(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"user_id":    userID,
			"invite_url": url,
		})
	}
}
