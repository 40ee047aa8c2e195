package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/clinic-dashboard/internal/models"
)

// EventStatsProvider builds the dashboard's event charts.
type EventStatsProvider interface {
	EventStats(ctx context.Context, days int) models.EventStats
}

// RegisterDashboardRoutes registers GET /dashboard/events?days=N.
// A failing source still answers 200 with degraded=true and zero buckets.
func RegisterDashboardRoutes(r gin.IRoutes, svc EventStatsProvider) {
	r.GET("/dashboard/events", func(c *gin.Context) {
		days := 0
		if s := c.Query("days"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
				return
			}
			days = n
		}

		c.JSON(http.StatusOK, svc.EventStats(c.Request.Context(), days))
	})
}
