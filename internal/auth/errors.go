package auth

import (
	"fmt"
	"strings"
)

// AuthRequiredError means there is no usable credential chain and the user
// has to sign in with Google at URL.
type AuthRequiredError struct {
	URL     string
	Message string
}

// Error implements the error interface
func (e *AuthRequiredError) Error() string {
	if e.Message == "" {
		return "Google authentication required."
	}
	return e.Message
}

// Prompt returns the text shown to the user. The consent URL is appended
// when the message does not already contain it.
func (e *AuthRequiredError) Prompt() string {
	msg := e.Error()
	if e.URL == "" || strings.Contains(msg, e.URL) {
		return msg
	}
	return fmt.Sprintf("%s\n\nTo re-authorize, please visit the following URL in your browser and sign in:\n\n%s", msg, e.URL)
}

func newMissingIdentityError(url string) *AuthRequiredError {
	return &AuthRequiredError{
		URL: url,
		Message: "❌ Google ID token is missing.\n\n" +
			"To authorize, please visit the following URL in your browser, sign in, and paste the resulting code here:\n\n" +
			url +
			"\n\nAfter authorization, use the code to obtain a new Google ID token.",
	}
}

// TokenEndpointError is a non-2xx answer from the Dept token endpoint.
type TokenEndpointError struct {
	Grant      string
	StatusCode int
	Status     string // e.g. "401 Unauthorized"
	Body       string
}

// Error implements the error interface
func (e *TokenEndpointError) Error() string {
	op := "token refresh failed"
	if e.Grant == GrantGoogle {
		op = "initial token exchange failed"
	}
	return fmt.Sprintf("%s: %s - %s", op, e.Status, e.Body)
}

// staleIdentityMarkers are matched case-insensitively against the token
// endpoint's error body to detect a rejected identity token.
var staleIdentityMarkers = []string{
	"google authentication failed",
	"invalid token",
	"google",
	"jwt",
}

// rejectsIdentity reports whether the body of a failed grant_type=google
// exchange says the identity token itself was not accepted.
func rejectsIdentity(body string) bool {
	lower := strings.ToLower(body)
	for _, marker := range staleIdentityMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
