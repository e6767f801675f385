package controllers

import (
	"net/http"
	"time"

	"github.com/ghostlabs/ghostrank-backend/api/responses"
	"github.com/ghostlabs/ghostrank-backend/api/validators"
	"github.com/ghostlabs/ghostrank-backend/internal/tracker"
	"github.com/ghostlabs/ghostrank-backend/pkg/enums"
	pkgerrors "github.com/ghostlabs/ghostrank-backend/pkg/errors"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
)

type injectEventRequest struct {
	Kind       string     `json:"kind" validate:"required,oneof=member_arrived member_departed inspection"`
	MemberID   string     `json:"member_id" validate:"required"`
	OccurredAt *time.Time `json:"occurred_at"`
}

// InjectEvent feeds a synthetic event into the pipeline. Mounted only
// outside production; it exists to exercise attribution end to end without a
// live platform connection.
func InjectEvent(svc tracker.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req injectEventRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		kind, err := enums.ParseEventKind(req.Kind)
		if err != nil {
			responses.WriteError(ctx, logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid event kind"))
			return
		}

		event := tracker.Event{Kind: kind, MemberID: req.MemberID}
		if req.OccurredAt != nil {
			event.OccurredAt = *req.OccurredAt
		}

		outcome := svc.HandleEvent(ctx, event)
		responses.WriteSuccessStatus(w, http.StatusAccepted, outcome)
	}
}
