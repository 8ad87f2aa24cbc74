package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/openfleet/audittrail/internal/api/admin"
	"github.com/openfleet/audittrail/internal/api/middleware"
	"github.com/openfleet/audittrail/internal/api/response"
	"github.com/openfleet/audittrail/internal/auth"
	"github.com/openfleet/audittrail/internal/service"
	"github.com/openfleet/audittrail/internal/tracking"
)

type RouterDeps struct {
	ActivitySvc   *service.ActivityService
	SessionSvc    *service.SessionService
	AuditSvc      *service.AuditService
	Assembler     *tracking.Assembler
	JWTManager    *auth.JWTManager
	AdminEmail    string
	AdminPassword string
	CORSOrigins   string
	DefaultLimit  int
	MaxLimit      int
	Logger        *slog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Metrics
	metrics := middleware.NewMetrics()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(metrics.Middleware())

	// CORS
	origins := strings.Split(deps.CORSOrigins, ",")
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Prometheus metrics
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	authHandler := admin.NewAuthHandler(deps.JWTManager, deps.SessionSvc, deps.AuditSvc,
		deps.AdminEmail, deps.AdminPassword)
	activityHandler := admin.NewActivityHandler(deps.ActivitySvc, deps.DefaultLimit, deps.MaxLimit)
	sessionHandler := admin.NewSessionHandler(deps.SessionSvc, deps.DefaultLimit, deps.MaxLimit)
	auditHandler := admin.NewAuditHandler(deps.AuditSvc, deps.DefaultLimit, deps.MaxLimit)

	r.Route("/api/v1", func(r chi.Router) {
		// Rate limit the admin API: 30 req/s with burst of 60
		r.Use(middleware.RateLimit(30, 60))

		// Enrichment is computed once per request; login and logout need it
		// too, so it sits above the auth boundary.
		r.Use(middleware.Tracking(deps.Assembler))

		// Login (no auth required)
		r.Post("/auth/login", authHandler.Login)

		// Authenticated admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.AdminAuth(deps.JWTManager))

			r.Post("/auth/logout", authHandler.Logout)
			r.Post("/auth/refresh", authHandler.Refresh)

			// Audit trail read side
			r.Get("/activities", activityHandler.List)
			r.Get("/sessions", sessionHandler.List)
			r.Get("/audit", auditHandler.List)
		})
	})

	return r
}
