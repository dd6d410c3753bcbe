package google

// IdentityScopes are the OpenID Connect scopes requested at consent time.
// Only the identity token is needed; no Google Workspace API is called.
var IdentityScopes = []string{"openid", "email", "profile"}
