package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sttgateway/internal/admission"
	"sttgateway/internal/config"
	"sttgateway/internal/registry"
)

func testHandler(allowedOrigins []string) *Handler {
	cfg := &config.Config{AllowedOrigins: allowedOrigins}
	return NewHandler(cfg, admission.New(registry.Default()), nil, nil)
}

func TestHealthEndpointReturnsOK(t *testing.T) {
	h := testHandler([]string{"*"})
	router := SetupRoutes(h, &config.Config{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSAllowsWildcardOrigin(t *testing.T) {
	h := testHandler([]string{"*"})
	router := SetupRoutes(h, &config.Config{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRejectsUnlistedOrigin(t *testing.T) {
	h := testHandler([]string{"https://allowed.example"})
	router := SetupRoutes(h, &config.Config{AllowedOrigins: []string{"https://allowed.example"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCORSPreflightReturnsNoContent(t *testing.T) {
	h := testHandler([]string{"*"})
	router := SetupRoutes(h, &config.Config{AllowedOrigins: []string{"*"}})

	req := httptest.NewRequest(http.MethodOptions, "/v1/models", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
