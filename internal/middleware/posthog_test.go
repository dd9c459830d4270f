package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/medantrix/hms_accounting_app/internal/utils"
	"github.com/stretchr/testify/assert"
)

func newAnalyticsTestRouter(client *utils.PosthogClientWrapper) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PosthogMiddleware(client))
	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })
	r.GET("/api/v1/accounts", func(c *gin.Context) {
		c.Set("userID", "user-1")
		c.JSON(http.StatusOK, gin.H{"data": []string{}})
	})
	return r
}

func TestPosthogMiddleware_DisabledClientPassesThrough(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	r := newAnalyticsTestRouter(utils.InitializePosthogClient("", logger))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPosthogMiddleware_NilClientPassesThrough(t *testing.T) {
	r := newAnalyticsTestRouter(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
