// Package api exposes the league over HTTP with chi.
package api

import (
	"net/http"
	"time"

	userjwt "github.com/Black-And-White-Club/moto-pickem/app/modules/user/infrastructure/jwt"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// RouterConfig controls the HTTP surface.
type RouterConfig struct {
	AllowedOrigins []string
	AdminToken     string
	RateLimit      rate.Limit
	RateBurst      int
	// Gatherer serves /metrics when set.
	Gatherer prometheus.Gatherer
	// Sessions enables POST /api/sessions and bearer identity. Without it
	// player routes trust the X-User-ID header.
	Sessions   userjwt.Provider
	SessionTTL time.Duration
}

// NewRouter mounts every route.
func NewRouter(h *Handlers, cfg RouterConfig) chi.Router {
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = 20
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 30 * 24 * time.Hour
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(CorrelationMiddleware)

	r.Get("/healthz", h.Health)
	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	limiter := NewIPRateLimiter(cfg.RateLimit, cfg.RateBurst)
	r.Route("/api", func(r chi.Router) {
		r.Use(CORSMiddleware(cfg.AllowedOrigins))
		r.Use(RateLimitMiddleware(limiter))

		r.Get("/rounds", h.ListRounds)
		r.Get("/rounds/{round}", h.GetRound)
		r.Get("/rounds/{round}/riders", h.EligibleRiders)
		r.Get("/rounds/{round}/results/{class}", h.GetResults)
		r.Get("/leaderboard", h.GetLeaderboard)
		r.Get("/leaderboard/chart.png", h.GetProgressionChart)
		r.Post("/users", h.RegisterUser)
		if cfg.Sessions != nil {
			r.Post("/sessions", h.Login(cfg.Sessions, cfg.SessionTTL))
		}

		r.Group(func(r chi.Router) {
			var tokens TokenValidator
			if cfg.Sessions != nil {
				tokens = cfg.Sessions
			}
			r.Use(IdentityMiddleware(tokens))
			r.Get("/rounds/{round}/picks", h.GetRoundView)
			r.Put("/rounds/{round}/picks", h.SubmitPick)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(AdminMiddleware(cfg.AdminToken))

			r.Put("/rounds/{round}", h.UpsertRound)
			r.Delete("/rounds/{round}", h.DeleteRound)
			r.Post("/rounds/{round}/results/{class}", h.EnterResults)
			r.Post("/rounds/{round}/results/{class}/import", h.ImportResults)
			r.Post("/rounds/{round}/sweep", h.RunAutoPickSweep)

			r.Put("/riders", h.UpsertRider)
			r.Put("/riders/{name}/active", h.SetRiderActive)

			r.Post("/leaderboard/recalculate", h.TriggerRecalculation)

			r.Get("/users", h.ListUsers)
			r.Put("/users/{id}/password", h.ResetPassword)
			r.Delete("/users/{id}", h.DeleteUser)
		})
	})
	return r
}
