// Package google handles the Google side of sign-in.
//
// It builds the consent URL shown to the user, exchanges the authorization
// code delivered to the callback receiver for a Google identity token, and
// reads the (unverified) claims of that token for logging. The Dept token
// endpoint is what actually validates the identity token.
package google
