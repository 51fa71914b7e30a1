package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ginapi "github.com/himuexe/Utsavia/api/gin"
	"github.com/himuexe/Utsavia/config"
	"github.com/himuexe/Utsavia/services"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	cfg := &config.ServerConfig{
		HTTPPort:        "3000",
		FrontendURL:     "http://localhost:5173",
		OtelServiceName: "utsavia-auth-test",
	}

	tokens := services.NewTokenService("test-secret", "utsavia", time.Hour, nil)
	authAPI := ginapi.NewAuthAPI(nil, tokens, nil, nil, ginapi.Config{
		FrontendURL:   cfg.FrontendURL,
		SessionSecret: "session-secret",
		TokenTTL:      time.Hour,
	})

	return NewHTTPServer(cfg, authAPI, prometheus.NewRegistry()).Handler
}

func TestCORSAllowsCredentialedFrontendRequests(t *testing.T) {
	handler := newTestServer(t)

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("simple request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("foreign origin gets no allow headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
