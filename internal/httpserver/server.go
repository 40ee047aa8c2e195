package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/clinic-dashboard/internal/auth"
	"github.com/PratikDhanave/clinic-dashboard/internal/config"
	"github.com/PratikDhanave/clinic-dashboard/internal/handlers"
	"github.com/PratikDhanave/clinic-dashboard/internal/logging"
	"github.com/PratikDhanave/clinic-dashboard/internal/metrics"
	"github.com/PratikDhanave/clinic-dashboard/internal/toast"
)

// Pinger is a dependency checked by /ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// EventLogStore is the optional Postgres ingestion table.
type EventLogStore interface {
	handlers.EventLogWriter
	handlers.EventLogCounter
}

// Deps groups what the router serves.
type Deps struct {
	Dashboard handlers.EventStatsProvider
	Toasts    *toast.Manager
	Store     EventLogStore // nil disables ingestion routes
	Ready     Pinger
	Metrics   *metrics.Metrics
	Logger    *logging.Logger

	StreamKeepAlive time.Duration
}

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready, /metrics/prometheus
// Authenticated: /dashboard/events, /toasts..., /event-logs...
func NewRouter(cfg config.Config, d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	if d.Logger != nil {
		r.Use(logging.GinMiddleware(d.Logger))
	}
	if d.Metrics != nil {
		r.Use(d.Metrics.GinMiddleware())
		r.GET("/metrics/prometheus", gin.WrapH(d.Metrics.Handler()))
	}

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the event source is reachable.
	r.GET("/ready", func(c *gin.Context) {
		if d.Ready == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := d.Ready.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.APIKeys))

	handlers.RegisterDashboardRoutes(authGroup, d.Dashboard)
	handlers.RegisterToastRoutes(authGroup, d.Toasts, d.StreamKeepAlive)

	if d.Store != nil {
		handlers.RegisterEventLogRoutes(authGroup, d.Store, d.Metrics)
		handlers.RegisterCountRoutes(authGroup, d.Store)
	}

	return r
}
