package auth

import (
	"sync/atomic"
	"time"
)

// Credentials is the backend token set issued by the Dept token endpoint.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// validFor reports whether the access token is still valid margin after now.
func (c *Credentials) validFor(now time.Time, margin time.Duration) bool {
	if c == nil || c.AccessToken == "" || c.ExpiresAt.IsZero() {
		return false
	}
	return c.ExpiresAt.After(now.Add(margin))
}

// Session is the process-wide authentication state: the latest Google
// identity token and the current Credentials. Both values are replaced by
// pointer swap, so readers see either the old or the new value.
type Session struct {
	identityToken atomic.Pointer[string]
	credentials   atomic.Pointer[Credentials]
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// SetIdentityToken publishes a new Google identity token. The last writer wins.
func (s *Session) SetIdentityToken(token string) {
	s.identityToken.Store(&token)
}

// IdentityToken returns the latest identity token or "".
func (s *Session) IdentityToken() string {
	if p := s.identityToken.Load(); p != nil {
		return *p
	}
	return ""
}

// Credentials returns a copy of the current credentials.
func (s *Session) Credentials() (Credentials, bool) {
	if c := s.credentials.Load(); c != nil {
		return *c, true
	}
	return Credentials{}, false
}

// StoreCredentials replaces the credential set.
func (s *Session) StoreCredentials(c Credentials) {
	s.credentials.Store(&c)
}

// HasCredentials reports whether a backend access token has been obtained.
func (s *Session) HasCredentials() bool {
	return s.credentials.Load() != nil
}
