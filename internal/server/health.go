package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/logging"
)

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"

	credentialsCached  = "cached"
	credentialsMissing = "missing"
)

// HealthChecker serves the liveness and readiness probes of the server.
// Readiness never depends on a signed-in user: without credentials the first
// tool call answers with a sign-in link.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready. sc may be
// nil in tests.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// HealthResponse represents the JSON response for health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse adds session details to the readiness state.
type DetailedHealthResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Credentials string `json:"credentials"`
	SignedIn    bool   `json:"signed_in"`
	// UserHash identifies the signed-in Google account without exposing it.
	UserHash string `json:"user_hash,omitempty"`
}

// status evaluates readiness. The returned status is healthStatusOK,
// healthStatusNotReady or healthStatusShuttingDown.
func (h *HealthChecker) status() (string, map[string]string) {
	checks := map[string]string{
		"ready":       healthStatusOK,
		"shutdown":    healthStatusOK,
		"credentials": credentialsMissing,
	}
	status := healthStatusOK

	if !h.ready.Load() {
		checks["ready"] = healthStatusNotReady
		status = healthStatusNotReady
	}
	if h.serverContext != nil && h.serverContext.IsShutdown() {
		checks["shutdown"] = healthStatusShuttingDown
		if status == healthStatusOK {
			status = healthStatusShuttingDown
		}
	}
	if h.serverContext != nil && h.serverContext.Session().HasCredentials() {
		checks["credentials"] = credentialsCached
	}
	return status, checks
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusCode(status string) int {
	if status == healthStatusOK {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

// LivenessHandler returns an HTTP handler for the /healthz endpoint.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler returns an HTTP handler for the /readyz endpoint.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, checks := h.status()
		// Probes only distinguish ready from not ready.
		if status == healthStatusShuttingDown {
			status = healthStatusNotReady
		}
		writeJSON(w, statusCode(status), HealthResponse{Status: status, Checks: checks})
	})
}

// DetailedHealthHandler returns an HTTP handler for the /healthz/detailed endpoint.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, checks := h.status()
		response := DetailedHealthResponse{
			Status:      status,
			Uptime:      time.Since(h.startTime).Truncate(time.Second).String(),
			Credentials: checks["credentials"],
		}
		if h.serverContext != nil {
			response.SignedIn = h.serverContext.Session().IdentityToken() != ""
			if email := h.serverContext.Identity(); email != "" {
				response.UserHash = logging.AnonymizeEmail(email)
			}
		}
		writeJSON(w, statusCode(status), response)
	})
}

// RegisterHealthEndpoints registers health check endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
