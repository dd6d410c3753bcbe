package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// AuthEndpoint is Google's OAuth 2.0 authorization endpoint.
const AuthEndpoint = "https://accounts.google.com/o/oauth2/v2/auth"

// Endpoint is used when OAuthConfig.Endpoint is left empty.
var Endpoint = oauth2.Endpoint{
	AuthURL:   AuthEndpoint,
	TokenURL:  google.Endpoint.TokenURL,
	AuthStyle: oauth2.AuthStyleInParams,
}

// ErrNoIDToken is returned when Google answers a code exchange without an id_token.
var ErrNoIDToken = errors.New("no id_token returned from Google")

// OAuthConfig identifies the Google OAuth client used for sign-in.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string

	// Endpoint overrides the Google endpoints. Tests point it at httptest servers.
	Endpoint oauth2.Endpoint
}

func (c OAuthConfig) oauth2Config() *oauth2.Config {
	endpoint := c.Endpoint
	if endpoint.AuthURL == "" && endpoint.TokenURL == "" {
		endpoint = Endpoint
	}
	return &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  c.RedirectURI,
		Scopes:       IdentityScopes,
	}
}

// AuthURL returns the consent URL the user has to open in a browser.
// Offline access and a forced consent prompt are always requested.
func AuthURL(cfg OAuthConfig) (string, error) {
	if cfg.ClientID == "" {
		return "", fmt.Errorf("missing GOOGLE_AUTH_CLIENT_ID")
	}
	return cfg.oauth2Config().AuthCodeURL("", oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// ExchangeCode trades an authorization code for a Google identity token.
// A nil client means http.DefaultClient.
func ExchangeCode(ctx context.Context, cfg OAuthConfig, client *http.Client, code string) (string, error) {
	if cfg.ClientID == "" {
		return "", fmt.Errorf("missing GOOGLE_AUTH_CLIENT_ID")
	}
	if cfg.ClientSecret == "" {
		return "", fmt.Errorf("missing GOOGLE_AUTH_CLIENT_SECRET")
	}
	if client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, client)
	}

	tok, err := cfg.oauth2Config().Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			return "", fmt.Errorf("google token exchange failed: %s - %s", retrieveErr.Response.Status, retrieveErr.Body)
		}
		return "", fmt.Errorf("google token exchange failed: %w", err)
	}

	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", ErrNoIDToken
	}
	return idToken, nil
}

// Identity holds the claims of a Google identity token that are useful for logging.
type Identity struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// IdentityClaims decodes an identity token without verifying its signature.
func IdentityClaims(idToken string) (Identity, error) {
	payload, err := idtoken.ParsePayload(idToken)
	if err != nil {
		return Identity{}, fmt.Errorf("failed to parse identity token: %w", err)
	}
	email, _ := payload.Claims["email"].(string)
	return Identity{
		Subject:   payload.Subject,
		Email:     email,
		ExpiresAt: time.Unix(payload.Expires, 0),
	}, nil
}
