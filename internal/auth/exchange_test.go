package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenEndpoint struct {
	status int
	body   string
	forms  []url.Values
}

func (te *tokenEndpoint) start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		te.forms = append(te.forms, r.PostForm)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(te.status)
		_, _ = w.Write([]byte(te.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestExchanger(srv *httptest.Server) *Exchanger {
	return NewExchanger(ExchangerConfig{
		TokenURL:     srv.URL + "/token",
		ClientID:     "dept-client",
		ClientSecret: "dept-secret",
		HTTPClient:   srv.Client(),
		Now:          func() time.Time { return testNow },
	})
}

func TestExchangeIdentityToken(t *testing.T) {
	te := &tokenEndpoint{
		status: http.StatusOK,
		body:   `{"access_token":"access-1","token_type":"bearer","expires_in":3600,"refresh_token":"refresh-1","client_id":"dept-client"}`,
	}
	srv := te.start(t)

	creds, err := newTestExchanger(srv).ExchangeIdentityToken(context.Background(), "google-id-token")
	require.NoError(t, err)

	assert.Equal(t, Credentials{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    testNow.Add(time.Hour),
	}, creds)

	require.Len(t, te.forms, 1)
	form := te.forms[0]
	assert.Equal(t, "google", form.Get("grant_type"))
	assert.Equal(t, "google-id-token", form.Get("google_id_token"))
	assert.Equal(t, "dept-client", form.Get("client_id"))
	assert.Equal(t, "dept-secret", form.Get("client_secret"))
}

func TestExchangeIdentityToken_Rejected(t *testing.T) {
	te := &tokenEndpoint{status: http.StatusBadRequest, body: `{"error":"invalid_grant","error_description":"Google authentication failed"}`}
	srv := te.start(t)

	_, err := newTestExchanger(srv).ExchangeIdentityToken(context.Background(), "stale")
	require.Error(t, err)

	var endpointErr *TokenEndpointError
	require.True(t, errors.As(err, &endpointErr))
	assert.Equal(t, GrantGoogle, endpointErr.Grant)
	assert.Equal(t, http.StatusBadRequest, endpointErr.StatusCode)
	assert.Equal(t, te.body, endpointErr.Body)
	assert.Equal(t, "initial token exchange failed: 400 Bad Request - "+te.body, err.Error())
}

func TestExchangeIdentityToken_MissingAccessToken(t *testing.T) {
	te := &tokenEndpoint{status: http.StatusOK, body: `{"token_type":"bearer"}`}
	srv := te.start(t)

	_, err := newTestExchanger(srv).ExchangeIdentityToken(context.Background(), "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing access_token")
}

func TestRefresh(t *testing.T) {
	te := &tokenEndpoint{
		status: http.StatusOK,
		body:   `{"access_token":"access-2","token_type":"bearer","expires_in":1800,"refresh_token":"refresh-2"}`,
	}
	srv := te.start(t)

	creds, err := newTestExchanger(srv).Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)

	assert.Equal(t, "access-2", creds.AccessToken)
	assert.Equal(t, "refresh-2", creds.RefreshToken)
	assert.Equal(t, testNow.Add(30*time.Minute), creds.ExpiresAt)

	require.Len(t, te.forms, 1)
	form := te.forms[0]
	assert.Equal(t, "refresh_token", form.Get("grant_type"))
	assert.Equal(t, "refresh-1", form.Get("refresh_token"))
	assert.Equal(t, "dept-client", form.Get("client_id"))
	assert.Equal(t, "dept-secret", form.Get("client_secret"))
}

func TestRefresh_Rejected(t *testing.T) {
	te := &tokenEndpoint{status: http.StatusUnauthorized, body: `{"error":"invalid_grant"}`}
	srv := te.start(t)

	_, err := newTestExchanger(srv).Refresh(context.Background(), "revoked")
	require.Error(t, err)

	var endpointErr *TokenEndpointError
	require.True(t, errors.As(err, &endpointErr))
	assert.Equal(t, GrantRefreshToken, endpointErr.Grant)
	assert.Equal(t, "token refresh failed: 401 Unauthorized - "+te.body, err.Error())
}

func TestExchanger_MissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ExchangerConfig
		wantErr string
	}{
		{
			name:    "nothing configured",
			cfg:     ExchangerConfig{},
			wantErr: "missing required credentials: DEPT_CLIENT_ID, DEPT_CLIENT_SECRET, DEPT_TOKEN_URL",
		},
		{
			name:    "secret missing",
			cfg:     ExchangerConfig{TokenURL: "https://auth.example.com/token", ClientID: "c"},
			wantErr: "missing required credentials: DEPT_CLIENT_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := NewExchanger(tt.cfg)

			_, err := ex.ExchangeIdentityToken(context.Background(), "id")
			assert.EqualError(t, err, tt.wantErr)

			_, err = ex.Refresh(context.Background(), "refresh")
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
