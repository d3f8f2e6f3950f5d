package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/beanline/coffee_backoffice/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret"

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", middleware.AuthMiddleware(secret), func(c *gin.Context) {
		fromGin, _ := middleware.GetUserIDFromContext(c)
		fromCtx, _ := middleware.UserIDFromCtx(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"gin": fromGin, "ctx": fromCtx})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid, _, err := utils.GenerateJWT("staff-1", secret, time.Hour, "coffee-test")
	require.NoError(t, err)
	expired, _, err := utils.GenerateJWT("staff-1", secret, -time.Minute, "coffee-test")
	require.NoError(t, err)
	foreign, _, err := utils.GenerateJWT("staff-1", "someone-elses-secret", time.Hour, "coffee-test")
	require.NoError(t, err)

	tests := []struct {
		name      string
		header    string
		wantCode  int
		wantError string
	}{
		{"missing header", "", http.StatusUnauthorized, "Authorization header required"},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, "Authorization header format must be Bearer {token}"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "Token has expired"},
		{"bad signature", "Bearer " + foreign, http.StatusUnauthorized, "Invalid token"},
		{"valid", "Bearer " + valid, http.StatusOK, ""},
		{"scheme is case insensitive", "bearer " + valid, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			newAuthRouter().ServeHTTP(w, req)

			require.Equal(t, tt.wantCode, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			assert.Equal(t, "staff-1", body["gin"])
			assert.Equal(t, "staff-1", body["ctx"])
		})
	}
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	lim, err := middleware.NewMemoryRateLimiter("2-M")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/ping", middleware.RateLimit(lim), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for range 3 {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusNoContent {
			assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		}
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestNewMemoryRateLimiter_BadRate(t *testing.T) {
	_, err := middleware.NewMemoryRateLimiter("lots")
	assert.Error(t, err)
}

func TestPosthogEventName(t *testing.T) {
	assert.Equal(t, "api_v1_transactions_transactionID_refund", middleware.PosthogEventName("/api/v1/transactions/:transactionID/refund"))
	assert.Equal(t, "api_v1_inventory_adjust", middleware.PosthogEventName("/api/v1/inventory/adjust"))
	assert.Equal(t, "", middleware.PosthogEventName(""))
}

func TestPosthogMiddleware_UninitializedClientPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/v1/orders", middleware.PosthogMiddleware(&utils.PosthogClientWrapper{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetLoggerFromCtx_DefaultsWhenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotNil(t, middleware.GetLoggerFromCtx(req.Context()))
}
