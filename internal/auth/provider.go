package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/instrumentation"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/logging"
)

// ExpiryMargin is how long before its expiry an access token is refreshed.
const ExpiryMargin = 60 * time.Second

// TokenExchanger performs the token endpoint exchanges. *Exchanger is the
// production implementation.
type TokenExchanger interface {
	ExchangeIdentityToken(ctx context.Context, idToken string) (Credentials, error)
	Refresh(ctx context.Context, refreshToken string) (Credentials, error)
}

// Option configures a Provider.
type Option func(*Provider)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) { p.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(p *Provider) { p.metrics = m }
}

// Provider hands out valid backend access tokens.
type Provider struct {
	session   *Session
	exchanger TokenExchanger
	authURL   func() (string, error)
	now       func() time.Time
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// NewProvider creates a Provider. authURL builds the Google consent URL put
// into AuthRequiredError.
func NewProvider(session *Session, exchanger TokenExchanger, authURL func() (string, error), opts ...Option) *Provider {
	p := &Provider{
		session:   session,
		exchanger: exchanger,
		authURL:   authURL,
		now:       time.Now,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Session returns the session the provider reads and updates.
func (p *Provider) Session() *Session {
	return p.session
}

// AccessToken returns a backend access token valid for at least ExpiryMargin.
// A cached token is returned without any network call.
func (p *Provider) AccessToken(ctx context.Context) (string, error) {
	if creds, ok := p.session.Credentials(); ok && creds.validFor(p.now(), ExpiryMargin) {
		return creds.AccessToken, nil
	}
	return p.refresh(ctx)
}

// refresh uses the cached refresh token when there is one and never falls
// back to the identity token in that case.
func (p *Provider) refresh(ctx context.Context) (string, error) {
	creds, ok := p.session.Credentials()
	if !ok || creds.RefreshToken == "" {
		return p.initial(ctx)
	}

	p.logger.Debug("refreshing access token")
	next, err := p.exchanger.Refresh(ctx, creds.RefreshToken)
	if err != nil {
		return "", err
	}
	if next.RefreshToken == "" {
		next.RefreshToken = creds.RefreshToken
	}
	p.session.StoreCredentials(next)
	return next.AccessToken, nil
}

// initial exchanges the published identity token for a first credential set.
func (p *Provider) initial(ctx context.Context) (string, error) {
	if err := p.checkExchanger(); err != nil {
		return "", err
	}

	idToken := p.session.IdentityToken()
	if idToken == "" {
		url, err := p.authURL()
		if err != nil {
			return "", fmt.Errorf("failed to build Google authorization URL: %w", err)
		}
		p.metrics.RecordTokenExchange(ctx, GrantGoogle, instrumentation.OAuthResultAuthPrompt)
		p.logger.Info("Google sign-in required", slog.String("reason", "missing identity token"))
		return "", newMissingIdentityError(url)
	}

	creds, err := p.exchanger.ExchangeIdentityToken(ctx, idToken)
	if err != nil {
		var endpointErr *TokenEndpointError
		if errors.As(err, &endpointErr) && rejectsIdentity(endpointErr.Body) {
			url, urlErr := p.authURL()
			if urlErr != nil {
				return "", errors.Join(err, urlErr)
			}
			p.metrics.RecordTokenExchange(ctx, GrantGoogle, instrumentation.OAuthResultAuthPrompt)
			p.logger.Info("Google sign-in required",
				slog.String("reason", "identity token rejected"),
				slog.Int(logging.KeyStatus, endpointErr.StatusCode))
			return "", &AuthRequiredError{URL: url, Message: endpointErr.Body}
		}
		return "", err
	}

	p.session.StoreCredentials(creds)
	return creds.AccessToken, nil
}

// credentialChecker is implemented by exchangers that can tell up front
// that they are not configured.
type credentialChecker interface {
	checkCredentials() error
}

// checkExchanger reports missing client credentials before the identity
// token is even looked at.
func (p *Provider) checkExchanger() error {
	if c, ok := p.exchanger.(credentialChecker); ok {
		return c.checkCredentials()
	}
	return nil
}
