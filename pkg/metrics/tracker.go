package metrics

import (
	"github.com/ghostlabs/ghostrank-backend/pkg/enums"
	"github.com/prometheus/client_golang/prometheus"
)

// TrackerMetrics counts pipeline outcomes per event kind so skipped and
// failed attributions stay visible in dashboards instead of vanishing into
// logs.
type TrackerMetrics struct {
	outcomes *prometheus.CounterVec
}

// NewTrackerMetrics registers the tracker outcome counters.
func NewTrackerMetrics(reg prometheus.Registerer) *TrackerMetrics {
	if reg == nil {
		return &TrackerMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracker_event_outcomes",
		Help: "Tracker pipeline outcomes by event kind, status and reason.",
	}, []string{"kind", "status", "reason"})
	reg.MustRegister(outcomes)
	return &TrackerMetrics{outcomes: outcomes}
}

// IncOutcome records one resolved event.
func (t *TrackerMetrics) IncOutcome(kind enums.EventKind, status enums.OutcomeStatus, reason enums.OutcomeReason) {
	if t == nil || t.outcomes == nil {
		return
	}
	t.outcomes.WithLabelValues(string(kind), string(status), string(reason)).Inc()
}
