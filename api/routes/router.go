package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ghostlabs/ghostrank-backend/api/controllers"
	"github.com/ghostlabs/ghostrank-backend/api/middleware"
	"github.com/ghostlabs/ghostrank-backend/internal/tracker"
	"github.com/ghostlabs/ghostrank-backend/pkg/config"
	"github.com/ghostlabs/ghostrank-backend/pkg/logger"
	"github.com/ghostlabs/ghostrank-backend/pkg/redis"
)

// RouterParams carry everything the HTTP surface depends on.
type RouterParams struct {
	Config  *config.Config
	Logger  *logger.Logger
	DB      controllers.Pinger
	Redis   *redis.Client
	Tracker tracker.Service
	Metrics prometheus.Gatherer
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(p.Config.Dashboard.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.DB, p.Redis))
	})

	if p.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		ranking := controllers.Ranking(p.Tracker, p.Redis, p.Logger)
		r.Get("/ranking", ranking)
		r.Get("/ranking/{limit}", ranking)
		r.Route("/members/{userID}", func(r chi.Router) {
			r.Get("/rank", controllers.MemberRank(p.Tracker, p.Logger))
			r.Post("/invite", controllers.MemberInvite(p.Tracker, p.Logger))
		})

		// synthetic event injection never ships to production
		if !p.Config.App.IsProd() {
			r.Post("/events", controllers.InjectEvent(p.Tracker, p.Logger))
		}
	})

	return r
}
