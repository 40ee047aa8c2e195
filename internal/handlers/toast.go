package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/clinic-dashboard/internal/toast"
)

type publishToastRequest struct {
	Type    toast.Type `json:"type"`
	Message string     `json:"message"`
}

// RegisterToastRoutes exposes the toast manager to the dashboard shell.
//
// GET    /toasts         current list
// POST   /toasts         publish {type, message}
// DELETE /toasts/:id     dismiss; unknown ids are not an error
// GET    /toasts/stream  SSE: full list on connect and after every change
func RegisterToastRoutes(r gin.IRoutes, m *toast.Manager, keepAlive time.Duration) {
	if keepAlive <= 0 {
		keepAlive = 15 * time.Second
	}

	r.GET("/toasts", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"toasts": m.Messages()})
	})

	r.POST("/toasts", func(c *gin.Context) {
		var req publishToastRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		if req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message required"})
			return
		}
		if !req.Type.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be success, error, warning or info"})
			return
		}

		c.JSON(http.StatusCreated, m.Publish(req.Type, req.Message))
	})

	r.DELETE("/toasts/:id", func(c *gin.Context) {
		m.Remove(c.Param("id"))
		c.Status(http.StatusNoContent)
	})

	r.GET("/toasts/stream", func(c *gin.Context) {
		// Each update carries the full list, so only the latest one matters.
		updates := make(chan []toast.Message, 1)
		unsubscribe := m.Subscribe(func(list []toast.Message) {
			select {
			case updates <- list:
			default:
				select {
				case <-updates:
				default:
				}
				select {
				case updates <- list:
				default:
				}
			}
		})
		defer unsubscribe()

		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")

		c.SSEvent("toasts", m.Messages())
		c.Writer.Flush()

		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()

		ctx := c.Request.Context()
		c.Stream(func(w io.Writer) bool {
			select {
			case <-ctx.Done():
				return false
			case list := <-updates:
				c.SSEvent("toasts", list)
				return true
			case <-ticker.C:
				c.SSEvent("ping", time.Now().UTC().Format(time.RFC3339))
				return true
			}
		})
	})
}
