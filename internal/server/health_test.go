package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/auth"
)

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name            string
		ready           bool
		shutdown        bool
		credentials     bool
		wantCode        int
		wantCredentials string
	}{
		{"ready without credentials", true, false, false, http.StatusOK, credentialsMissing},
		{"ready with credentials", true, false, true, http.StatusOK, credentialsCached},
		{"not ready", false, false, true, http.StatusServiceUnavailable, credentialsCached},
		{"shutting down", true, true, false, http.StatusServiceUnavailable, credentialsMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := auth.NewSession()
			if tt.credentials {
				session.StoreCredentials(auth.Credentials{
					AccessToken: "a",
					ExpiresAt:   time.Now().Add(time.Hour),
				})
			}
			sc := NewServerContext(context.Background(), Options{Session: session})
			if tt.shutdown {
				require.NoError(t, sc.Shutdown())
			}

			h := NewHealthChecker(sc)
			h.SetReady(tt.ready)

			rec := httptest.NewRecorder()
			h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCredentials, resp.Checks["credentials"])
		})
	}
}

func TestLivenessHandler(t *testing.T) {
	h := NewHealthChecker(nil)
	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDetailedHealthHandler(t *testing.T) {
	session := auth.NewSession()
	session.SetIdentityToken("id-token")
	sc := NewServerContext(context.Background(), Options{Session: session})

	h := NewHealthChecker(sc)
	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusOK, resp.Status)
	assert.Equal(t, credentialsMissing, resp.Credentials)
	assert.True(t, resp.SignedIn)
	assert.NotEmpty(t, resp.Uptime)
}

func TestDetailedHealthHandler_ShuttingDown(t *testing.T) {
	sc := NewServerContext(context.Background(), Options{})
	require.NoError(t, sc.Shutdown())

	h := NewHealthChecker(sc)
	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp DetailedHealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, healthStatusShuttingDown, resp.Status)
	assert.False(t, resp.SignedIn)
	assert.Empty(t, resp.UserHash)
}
