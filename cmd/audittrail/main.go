package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/openfleet/audittrail/internal/api"
	"github.com/openfleet/audittrail/internal/auth"
	"github.com/openfleet/audittrail/internal/config"
	"github.com/openfleet/audittrail/internal/geo"
	"github.com/openfleet/audittrail/internal/repository/postgres"
	"github.com/openfleet/audittrail/internal/service"
	"github.com/openfleet/audittrail/internal/tracking"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(log)

	if err := run(log); err != nil {
		log.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log.Info("starting audittrail",
		"listen", cfg.ListenAddr(),
		"db_host", cfg.DB.Host,
		"geo_endpoint", cfg.Geo.Endpoint,
	)

	// Run migrations
	log.Info("running database migrations")
	if err := postgres.RunMigrations(cfg.DB.DSN()); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	log.Info("migrations completed")

	// Database connection pool
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DB.DSN())
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping db: %w", err)
	}
	log.Info("database connected")

	// Optional redis cache for geolocation lookups. The resolver works
	// without it, so a failed ping only downgrades to uncached lookups.
	var cache *redis.Client
	if cfg.Redis.Addr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := cache.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, geolocation cache disabled", "err", err)
			cache = nil
		} else {
			log.Info("geolocation cache enabled", "addr", cfg.Redis.Addr)
		}
	}

	// Enrichment pipeline
	geoResolver := geo.NewResolver(cfg.Geo.Endpoint, cfg.Geo.Timeout, cache, cfg.Geo.CacheTTL, log)
	assembler := tracking.NewAssembler(geoResolver)

	// Repositories
	activityRepo := postgres.NewActivityRepo(pool)
	sessionRepo := postgres.NewSessionRepo(pool)
	auditRepo := postgres.NewAuditRepo(pool)

	// Services
	activitySvc := service.NewActivityService(activityRepo, nil, log)
	sessionSvc := service.NewSessionService(sessionRepo, activitySvc, log)
	auditSvc := service.NewAuditService(auditRepo, log)

	// Auth
	jwtMgr := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)

	// Router
	router := api.NewRouter(api.RouterDeps{
		ActivitySvc:   activitySvc,
		SessionSvc:    sessionSvc,
		AuditSvc:      auditSvc,
		Assembler:     assembler,
		JWTManager:    jwtMgr,
		AdminEmail:    cfg.Auth.AdminEmail,
		AdminPassword: cfg.Auth.AdminPassword,
		CORSOrigins:   cfg.CORS.AllowedOrigins,
		DefaultLimit:  cfg.Query.DefaultLimit,
		MaxLimit:      cfg.Query.MaxLimit,
		Logger:        log,
	})

	// HTTP Server
	srv := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.ListenAddr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Info("shutting down", "signal", sig)
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
