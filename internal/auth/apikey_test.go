package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(APIKeyMiddleware(map[string]string{"k1": "dr.ana"}))
	r.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, Operator(c)) })
	return r
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		query  string
		status int
		body   string
	}{
		{name: "header", header: "k1", status: http.StatusOK, body: "dr.ana"},
		{name: "query param", query: "?api_key=k1", status: http.StatusOK, body: "dr.ana"},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "wrong", header: "nope", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()

			newRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}
