package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"brigade/internal/checkin/handler"
	"brigade/internal/checkin/metrics"
	"brigade/internal/checkin/qr"
	"brigade/internal/checkin/service"
	"brigade/internal/checkin/store"
	"brigade/internal/checkin/workers/cleanup"
	"brigade/internal/platform/config"
	"brigade/internal/platform/database"
	"brigade/internal/platform/health"
	"brigade/internal/platform/logger"
	adminmw "brigade/pkg/platform/middleware/admin"
	"brigade/pkg/platform/middleware/clientmeta"
	request "brigade/pkg/platform/middleware/request"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal/checkin packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing brigade",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	healthHandler := health.New(cfg.Environment)

	// Postgres when configured, in-memory otherwise. The in-memory store keeps
	// local development and demos free of infrastructure.
	var credentials service.Store
	var cleanupStore cleanup.CredentialStore
	if cfg.DatabaseURL != "" {
		poolCfg := database.DefaultConfig()
		poolCfg.URL = cfg.DatabaseURL
		pool, err := database.New(poolCfg)
		if err != nil {
			log.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if err := database.Migrate(ctx, pool.DB()); err != nil {
			log.Error("database migration failed", "error", err)
			os.Exit(1)
		}

		pg := store.NewPostgres(pool.DB())
		credentials = pg
		cleanupStore = pg
		healthHandler.RegisterCheck("database", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(checkCtx)
		})
		log.Info("using postgres credential store")
	} else {
		mem := store.NewInMemory()
		credentials = mem
		cleanupStore = mem
		log.Warn("no database configured, using in-memory credential store")
	}

	m := metrics.New()
	svc := service.New(credentials,
		service.WithLogger(log),
		service.WithMetrics(m),
	)

	h := handler.New(svc, qr.NewEncoder(), log)

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(log))
	r.Use(request.Logger(log))
	r.Use(clientmeta.ClientMetadata)

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())
	h.RegisterPublic(r)

	if cfg.AdminTokenHash == "" {
		log.Warn("BRIGADE_ADMIN_TOKEN_HASH not set, admin endpoints disabled")
	} else {
		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(cfg.AdminTokenHash, log))
			h.RegisterAdmin(r)
		})
	}

	purger, err := cleanup.New(cleanupStore,
		cleanup.WithCleanupInterval(cfg.CleanupInterval),
		cleanup.WithCleanupRetention(cfg.CleanupRetention),
		cleanup.WithCleanupLogger(log),
		cleanup.WithCleanupMetrics(m),
	)
	if err != nil {
		log.Error("cleanup worker setup failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		err := purger.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
