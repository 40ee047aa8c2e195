package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PratikDhanave/clinic-dashboard/internal/auth"
	"github.com/PratikDhanave/clinic-dashboard/internal/eventlog"
	"github.com/PratikDhanave/clinic-dashboard/internal/metrics"
	"github.com/PratikDhanave/clinic-dashboard/internal/models"
)

const createdAtFormatError = "createdAt must be RFC3339, YYYY-MM-DDTHH:MM:SS[.sss], YYYY-MM-DD HH:MM:SS or YYYY-MM-DD"

// EventLogWriter persists ingested event logs.
type EventLogWriter interface {
	InsertEventLog(ctx context.Context, rec models.RawEventLog, createdAt time.Time) (bool, error)
}

// RegisterEventLogRoutes registers the ingestion path.
//
// POST /event-logs
// - Requires X-API-Key (operator context)
// - Durable: returns success only after DB write completes
// - Idempotent: duplicates detected via event_id uniqueness
func RegisterEventLogRoutes(r gin.IRoutes, st EventLogWriter, m *metrics.Metrics) {
	r.POST("/event-logs", func(c *gin.Context) {
		operator := auth.Operator(c)
		if operator == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req models.EventLogIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		if req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
			return
		}
		if req.CreatedAt == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "createdAt required"})
			return
		}

		// Naive timestamps are read as UTC.
		ts, ok := eventlog.ParseTimestamp(req.CreatedAt, time.UTC)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": createdAtFormatError})
			return
		}

		// Idempotency precedence:
		// 1) Idempotency-Key header (recommended for retries)
		// 2) event_id in payload
		// 3) generated UUID (fallback; cannot dedupe client retries)
		eventID := c.GetHeader("Idempotency-Key")
		if eventID == "" {
			eventID = req.EventID
		}
		if eventID == "" {
			eventID = uuid.NewString()
		}

		performedBy := req.PerformedBy
		if performedBy == "" {
			performedBy = operator
		}

		rec := models.RawEventLog{
			ID:          uuid.NewString(),
			EventID:     eventID,
			Message:     req.Message,
			PerformedBy: performedBy,
			Role:        req.Role,
			CreatedAt:   ts.UTC().Format(time.RFC3339Nano),
		}

		inserted, err := st.InsertEventLog(c.Request.Context(), rec, ts.UTC())
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db insert failed"})
			return
		}

		// 201 for new records, 200 for duplicates (idempotent success).
		status := http.StatusCreated
		outcome := "inserted"
		if !inserted {
			status = http.StatusOK
			outcome = "duplicate"
		}
		if m != nil {
			m.EventLogsIngestedTotal.WithLabelValues(outcome).Inc()
		}

		c.JSON(status, models.EventLogIngestResponse{
			ID:        rec.ID,
			EventID:   eventID,
			Duplicate: !inserted,
		})
	})
}
