package dept

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	err   error
	calls int
}

func (s *staticTokens) AccessToken(ctx context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

func TestGateway_URL(t *testing.T) {
	tests := []struct {
		name string
		base string
		path string
		want string
	}{
		{"trailing slash, bare path", "https://x/api/", "bookedhours", "https://x/api/bookedhours"},
		{"trailing slash, leading slash", "https://x/api/", "/bookedhours", "https://x/api/bookedhours"},
		{"no trailing slash", "https://x/api", "/bookedhours", "https://x/api/bookedhours"},
		{"doubled slashes", "https://x/api//", "//bookedhours/1", "https://x/api/bookedhours/1"},
		{"query kept", "https://x/api", "budgets/search?searchTerm=a", "https://x/api/budgets/search?searchTerm=a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGateway(GatewayConfig{BaseURL: tt.base})
			assert.Equal(t, tt.want, g.URL(tt.path))
		})
	}
}

func TestGateway_Call_Headers(t *testing.T) {
	var got http.Header
	var gotMethod, gotPath string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"id": 42}`))
	}))
	defer srv.Close()

	tokens := &staticTokens{token: "access-1"}
	g := NewGateway(GatewayConfig{BaseURL: srv.URL + "/api/", Tokens: tokens})

	result, err := g.Call(context.Background(), "bookedhours", CallOptions{
		Method: http.MethodPost,
		Headers: map[string]string{
			"Authorization": "Bearer someone-else",
			"Content-Type":  "text/plain",
			"X-Custom":      "yes",
		},
		Body: map[string]any{"hours": 8},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 42}`, string(result))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/bookedhours", gotPath)
	assert.Equal(t, "Bearer access-1", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "yes", got.Get("X-Custom"))
	_, err = uuid.Parse(got.Get("X-Request-Id"))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"hours": 8}`, string(gotBody))
	assert.Equal(t, 1, tokens.calls)
}

func TestGateway_Call_EmptyResults(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
	}{
		{"204 with json content type", http.StatusNoContent, "application/json", ""},
		{"non-json content type", http.StatusOK, "text/plain", "deleted"},
		{"empty json body", http.StatusOK, "application/json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGateway(GatewayConfig{BaseURL: srv.URL, Tokens: &staticTokens{token: "t"}})
			result, err := g.Call(context.Background(), "/bookedhours/1", CallOptions{Method: http.MethodDelete})
			require.NoError(t, err)
			assert.Nil(t, result)
		})
	}
}

func TestGateway_Call_APIError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantMessage string
	}{
		{
			name:        "json body",
			status:      http.StatusNotFound,
			contentType: "application/json",
			body:        `{ "message": "nope" }`,
			wantMessage: `API error: 404 - {"message":"nope"}`,
		},
		{
			name:        "no json body",
			status:      http.StatusInternalServerError,
			contentType: "text/html",
			body:        "<h1>boom</h1>",
			wantMessage: "API error: 500 - null",
		},
		{
			name:        "malformed json body",
			status:      http.StatusBadGateway,
			contentType: "application/json",
			body:        "{",
			wantMessage: "API error: 502 - null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := NewGateway(GatewayConfig{BaseURL: srv.URL, Tokens: &staticTokens{token: "t"}})
			_, err := g.Call(context.Background(), "/budgets/search", CallOptions{})
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, err.Error())
		})
	}
}

func TestGateway_Call_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	g := NewGateway(GatewayConfig{BaseURL: srv.URL, Tokens: &staticTokens{token: "t"}})
	_, err := g.Call(context.Background(), "/bookedhours", CallOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestGateway_Call_TokenError(t *testing.T) {
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	tokenErr := errors.New("no token")
	g := NewGateway(GatewayConfig{BaseURL: srv.URL, Tokens: &staticTokens{err: tokenErr}})
	_, err := g.Call(context.Background(), "/bookedhours", CallOptions{})
	assert.ErrorIs(t, err, tokenErr)
	assert.Zero(t, requests)
}

func TestGateway_Call_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	g := NewGateway(GatewayConfig{BaseURL: url, Tokens: &staticTokens{token: "t"}})
	_, err := g.Call(context.Background(), "/bookedhours", CallOptions{})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}

func TestGateway_Call_UnencodableBody(t *testing.T) {
	g := NewGateway(GatewayConfig{BaseURL: "http://127.0.0.1:1", Tokens: &staticTokens{token: "t"}})
	_, err := g.Call(context.Background(), "/bookedhours", CallOptions{
		Method: http.MethodPost,
		Body:   map[string]any{"bad": make(chan int)},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode request body")
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 400, Body: json.RawMessage(`{"errors": ["a"]}`)}
	assert.Equal(t, `API error: 400 - {"errors":["a"]}`, err.Error())

	err = &APIError{StatusCode: 401}
	assert.Equal(t, "API error: 401 - null", err.Error())
}

func TestNotFoundError_Error(t *testing.T) {
	err := &NotFoundError{ID: 123}
	assert.Equal(t, "Time booking with ID 123 not found", err.Error())
}
