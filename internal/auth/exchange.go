package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"golang.org/x/oauth2"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/instrumentation"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/logging"
)

// Grant types accepted by the Dept token endpoint.
const (
	GrantGoogle       = instrumentation.GrantGoogle
	GrantRefreshToken = instrumentation.GrantRefreshToken
)

// maxErrorBody caps how much of a failed token response is kept.
const maxErrorBody = 4096

// tokenResponse is the JSON body returned by the token endpoint.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	ClientID     string `json:"client_id"`
}

// ExchangerConfig configures an Exchanger.
type ExchangerConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string

	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
	// Now defaults to time.Now.
	Now     func() time.Time
	Logger  *slog.Logger
	Metrics *instrumentation.Metrics
}

// Exchanger performs the two token exchanges against the Dept token endpoint.
type Exchanger struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	now          func() time.Time
	logger       *slog.Logger
	metrics      *instrumentation.Metrics
}

// NewExchanger creates an Exchanger.
func NewExchanger(cfg ExchangerConfig) *Exchanger {
	e := &Exchanger{
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   cfg.HTTPClient,
		now:          cfg.Now,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
	}
	if e.httpClient == nil {
		e.httpClient = http.DefaultClient
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// checkCredentials fails when the static client credentials are not configured.
func (e *Exchanger) checkCredentials() error {
	var missing []string
	if e.clientID == "" {
		missing = append(missing, "DEPT_CLIENT_ID")
	}
	if e.clientSecret == "" {
		missing = append(missing, "DEPT_CLIENT_SECRET")
	}
	if e.tokenURL == "" {
		missing = append(missing, "DEPT_TOKEN_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required credentials: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ExchangeIdentityToken trades a Google identity token for backend credentials
// using the custom grant_type=google.
func (e *Exchanger) ExchangeIdentityToken(ctx context.Context, idToken string) (creds Credentials, err error) {
	ctx, span := instrumentation.StartTokenExchangeSpan(ctx, GrantGoogle)
	defer span.End()
	defer func() { e.finish(ctx, span, GrantGoogle, err) }()

	if err := e.checkCredentials(); err != nil {
		return Credentials{}, err
	}

	e.logger.Debug("exchanging identity token",
		logging.Grant(GrantGoogle),
		slog.String("identity_token", logging.SanitizeToken(idToken)))

	form := url.Values{
		"client_id":       {e.clientID},
		"client_secret":   {e.clientSecret},
		"grant_type":      {GrantGoogle},
		"google_id_token": {idToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to call token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Credentials{}, &TokenEndpointError{
			Grant:      GrantGoogle,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return Credentials{}, fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.AccessToken == "" {
		return Credentials{}, fmt.Errorf("token response is missing access_token")
	}

	return Credentials{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		ExpiresAt:    e.now().Add(time.Duration(tr.ExpiresIn) * time.Second),
	}, nil
}

// Refresh trades a refresh token for a new credential set.
func (e *Exchanger) Refresh(ctx context.Context, refreshToken string) (creds Credentials, err error) {
	ctx, span := instrumentation.StartTokenExchangeSpan(ctx, GrantRefreshToken)
	defer span.End()
	defer func() { e.finish(ctx, span, GrantRefreshToken, err) }()

	if err := e.checkCredentials(); err != nil {
		return Credentials{}, err
	}

	conf := &oauth2.Config{
		ClientID:     e.clientID,
		ClientSecret: e.clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  e.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, e.httpClient)

	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return Credentials{}, &TokenEndpointError{
				Grant:      GrantRefreshToken,
				StatusCode: retrieveErr.Response.StatusCode,
				Status:     retrieveErr.Response.Status,
				Body:       string(retrieveErr.Body),
			}
		}
		return Credentials{}, fmt.Errorf("failed to refresh token: %w", err)
	}

	return Credentials{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    e.expiry(tok),
	}, nil
}

// expiry computes the expiry from expires_in with the injected clock, falling
// back to the expiry oauth2 derived itself.
func (e *Exchanger) expiry(tok *oauth2.Token) time.Time {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return e.now().Add(time.Duration(v) * time.Second)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return e.now().Add(time.Duration(n) * time.Second)
		}
	}
	return tok.Expiry
}

// finish records the outcome of an exchange on the span, in metrics and in the log.
func (e *Exchanger) finish(ctx context.Context, span trace.Span, grant string, err error) {
	if err != nil {
		instrumentation.SetSpanError(span, err)
		e.metrics.RecordTokenExchange(ctx, grant, instrumentation.OAuthResultFailure)
		e.logger.Warn("token exchange failed", logging.Grant(grant), logging.Err(err))
		return
	}
	instrumentation.SetSpanSuccess(span)
	e.metrics.RecordTokenExchange(ctx, grant, instrumentation.OAuthResultSuccess)
	e.logger.Info("token exchange succeeded", logging.Grant(grant))
}
