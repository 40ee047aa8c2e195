package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/PratikDhanave/clinic-dashboard/internal/backend"
	"github.com/PratikDhanave/clinic-dashboard/internal/config"
	"github.com/PratikDhanave/clinic-dashboard/internal/dashboard"
	"github.com/PratikDhanave/clinic-dashboard/internal/httpserver"
	"github.com/PratikDhanave/clinic-dashboard/internal/logging"
	"github.com/PratikDhanave/clinic-dashboard/internal/metrics"
	"github.com/PratikDhanave/clinic-dashboard/internal/store"
	"github.com/PratikDhanave/clinic-dashboard/internal/toast"
)

// main boots the service: config → event source → toasts → HTTP server.
func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	if err := run(); err != nil {
		logging.Default().Error("exit", "error", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup always happens.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Logging)
	logging.SetDefault(logger)

	m := metrics.New()

	toasts := toast.New(
		toast.WithDurations(cfg.ToastDurations),
		toast.WithPublishHook(func(msg toast.Message) {
			m.ToastsPublishedTotal.WithLabelValues(string(msg.Type)).Inc()
			logger.Debug("toast published", "id", msg.ID, "type", msg.Type)
		}),
	)

	deps := httpserver.Deps{
		Toasts:  toasts,
		Metrics: m,
		Logger:  logger.WithComponent("http"),
	}

	// The Postgres ingestion table is optional in backend mode.
	var src dashboard.Source
	if cfg.DBURL != "" {
		db, err := store.NewPostgresStore(cfg.DBURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		if err := prepareStore(db); err != nil {
			return err
		}
		defer db.Close()
		deps.Store = db

		if cfg.EventSource == config.SourcePostgres {
			lb := store.LookbackSource{Store: db, Lookback: cfg.EventLookback}
			src = lb
			deps.Ready = lb
		}
	}
	if cfg.EventSource == config.SourceBackend {
		client := backend.NewClient(cfg.BackendURL, cfg.BackendToken, cfg.BackendTimeout)
		src = client
		deps.Ready = client
	}

	deps.Dashboard = dashboard.NewService(src, toasts,
		dashboard.WithLogger(logger.WithComponent("dashboard")),
		dashboard.WithMetrics(m),
		dashboard.WithLocation(cfg.DashboardLocation),
		dashboard.WithDefaultDays(cfg.DashboardDays),
	)

	router := httpserver.NewRouter(cfg, deps)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open toast streams end when the signal context is cancelled.
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", cfg.HTTPAddr, "event_source", cfg.EventSource)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}

type schemaStore interface {
	EnsureSchema() error
	Close()
}

// prepareStore applies the schema and closes the store if that fails.
func prepareStore(db schemaStore) error {
	if err := db.EnsureSchema(); err != nil {
		db.Close()
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
