package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
)

func TestHTTPServer_Handler(t *testing.T) {
	sc := NewServerContext(context.Background(), Options{})
	defer func() { _ = sc.Shutdown() }()

	mcpSrv := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))

	tests := []struct {
		name       string
		health     *HealthChecker
		path       string
		wantStatus int
	}{
		{name: "liveness", health: NewHealthChecker(sc), path: "/healthz", wantStatus: http.StatusOK},
		{name: "no health checker", health: nil, path: "/healthz", wantStatus: http.StatusNotFound},
		{name: "unknown path", health: NewHealthChecker(sc), path: "/oauth2callback", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHTTPServer(mcpSrv, tt.health).Handler()

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHTTPServer_ShutdownWithoutStart(t *testing.T) {
	srv := NewHTTPServer(mcpserver.NewMCPServer("test", "1.0.0"), nil)
	assert.NoError(t, srv.Shutdown(context.Background()))
}
