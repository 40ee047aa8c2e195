package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// operatorCtxKey is the Gin context key holding the authenticated operator.
const operatorCtxKey = "operator"

// APIKeyMiddleware maps X-API-Key → operator name. The dashboard shell and
// back-end webhooks each get their own key.
func APIKeyMiddleware(keys map[string]string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if apiKey == "" {
			// EventSource cannot set headers; the SSE stream passes the key as a query param.
			apiKey = strings.TrimSpace(c.Query("api_key"))
		}
		operator, ok := keys[apiKey]
		if !ok || apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(operatorCtxKey, operator)
		c.Next()
	}
}

// Operator returns the authenticated operator from the request context.
func Operator(c *gin.Context) string {
	v, _ := c.Get(operatorCtxKey)
	s, _ := v.(string)
	return s
}
