package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// EventLogCounter counts stored event logs over a window.
type EventLogCounter interface {
	CountEventLogs(ctx context.Context, from, to time.Time) (int64, error)
}

// RegisterCountRoutes registers the stored-record count endpoint.
//
// GET /event-logs/count?from=...&to=...
// - Returns count for the window [from,to)
func RegisterCountRoutes(r gin.IRoutes, st EventLogCounter) {
	r.GET("/event-logs/count", func(c *gin.Context) {
		fromStr := c.Query("from")
		toStr := c.Query("to")

		if fromStr == "" || toStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from, to are required"})
			return
		}

		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}

		from = from.UTC()
		to = to.UTC()

		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be < to"})
			return
		}

		count, err := st.CountEventLogs(c.Request.Context(), from, to)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"count": count})
	})
}
