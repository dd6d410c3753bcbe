// Package auth implements the backend token lifecycle.
//
// The flow is:
//
//  1. The user signs in with Google; the callback receiver publishes the
//     resulting identity token into the Session.
//  2. Provider.AccessToken exchanges the identity token at the Dept token
//     endpoint (grant_type=google) for an access/refresh token pair.
//  3. While the access token is valid for more than ExpiryMargin it is
//     returned from memory; afterwards it is refreshed with the refresh token.
//
// When there is no identity token, or the token endpoint rejects a stale
// one, AccessToken fails with an *AuthRequiredError carrying the Google
// consent URL. Tool handlers show that URL to the user instead of failing.
//
// Exactly one Credentials set exists per process and is replaced wholesale
// on every successful exchange. Concurrent callers are not serialized; two
// callers hitting an expired token may both refresh.
package auth
