package server

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/auth"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/config"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/google"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/instrumentation"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/logging"
)

const (
	callbackSuccessPage = "<h2>Google authentication successful!</h2><p>You may close this window.</p>"
	callbackMissingCode = "<h2>Missing code parameter.</h2>"
	callbackFailedPage  = "<h2>Google authentication failed.</h2><pre>%s</pre>"
)

// CodeExchanger trades a Google authorization code for an identity token.
type CodeExchanger func(ctx context.Context, code string) (string, error)

// CallbackConfig configures a CallbackServer.
type CallbackConfig struct {
	// Addr is the listen address, e.g. "0.0.0.0:3005".
	Addr string
	// RedirectURI is the redirect URI registered with Google.
	RedirectURI string

	Exchange CodeExchanger
	Session  *auth.Session

	// OnToken is called after a successful exchange.
	OnToken func(code, redirectURI, idToken string)

	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// CallbackServer receives the Google OAuth redirect.
type CallbackServer struct {
	cfg        CallbackConfig
	logger     *slog.Logger
	router     *mux.Router
	httpServer *http.Server
}

// NewCallbackServer creates a CallbackServer.
func NewCallbackServer(cfg CallbackConfig) *CallbackServer {
	s := &CallbackServer{cfg: cfg, logger: cfg.Logger}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.cfg.Session == nil {
		s.cfg.Session = auth.NewSession()
	}

	s.router = mux.NewRouter()
	s.router.HandleFunc(config.CallbackPath, s.handleCallback)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, http.StatusNotFound, "Not found")
	})
	return s
}

// Handler returns the callback server's handler. Every response is counted
// in http_requests_total; paths other than the callback path share one label.
func (s *CallbackServer) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		s.router.ServeHTTP(rec, r)

		path := r.URL.Path
		if path != config.CallbackPath {
			path = "other"
		}
		s.cfg.Metrics.RecordHTTPRequest(r.Context(), r.Method, path, rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// StartWithReadySignal binds the listener, closes ready (when non-nil) and
// serves until Shutdown.
func (s *CallbackServer) StartWithReadySignal(ready chan<- struct{}) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: DefaultMetricsReadTimeout,
		WriteTimeout:      DefaultMetricsWriteTimeout,
		IdleTimeout:       DefaultMetricsIdleTimeout,
	}
	return serveWithReadySignal(s.httpServer, ready, "OAuth callback")
}

// Shutdown gracefully stops the callback server.
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		s.respond(w, http.StatusBadRequest, callbackMissingCode)
		return
	}

	idToken, err := s.cfg.Exchange(r.Context(), code)
	if err != nil {
		s.logger.Warn("Google code exchange failed", logging.Err(err))
		s.respond(w, http.StatusInternalServerError,
			sprintfHTML(callbackFailedPage, err.Error()))
		return
	}

	s.cfg.Session.SetIdentityToken(idToken)

	attrs := []any{slog.String("identity_token", logging.SanitizeToken(idToken))}
	if id, err := google.IdentityClaims(idToken); err == nil && id.Email != "" {
		attrs = append(attrs, logging.UserHash(id.Email))
	}
	s.logger.Info("Google authentication completed", attrs...)

	if s.cfg.OnToken != nil {
		s.cfg.OnToken(code, s.cfg.RedirectURI, idToken)
	}

	s.respond(w, http.StatusOK, callbackSuccessPage)
}

func (s *CallbackServer) respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// sprintfHTML formats a page with an HTML-escaped message.
func sprintfHTML(format, msg string) string {
	return fmt.Sprintf(format, html.EscapeString(msg))
}
