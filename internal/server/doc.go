// Package server holds the runtime state of the MCP server and its HTTP
// side channels.
//
// ServerContext is built once by the serve command and handed to every tool
// handler. It owns the authentication session, the Dept booking client, the
// budget resolver and the optional instrumentation.
//
// CallbackServer receives the Google OAuth redirect on /oauth2callback,
// exchanges the authorization code for an identity token and publishes it to
// the session, so the next tool call can obtain backend credentials.
//
// MetricsServer exposes Prometheus metrics together with the liveness and
// readiness endpoints of HealthChecker.
//
// HTTPServer serves the streamable HTTP MCP transport on /mcp next to the
// same health endpoints.
package server
