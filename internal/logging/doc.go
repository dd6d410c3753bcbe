// Package logging provides structured logging utilities for the hour booking server.
//
// All logging goes through the standard library's slog package with a shared
// set of attribute keys so log lines from the token lifecycle, the budget
// resolver and the tool handlers can be correlated.
//
// # Usage Patterns
//
// Create the process logger (JSON on stderr, stdout belongs to the stdio transport):
//
//	logger := logging.NewLogger(os.Stderr, debug)
//
// Describe a remote call:
//
//	logger.Debug("dept api call", logging.Endpoint(http.MethodGet, "/budgets/search"))
//
// # Security Considerations
//
//   - Tokens are never logged directly, only as SanitizeToken length markers
//   - The Google identity's e-mail address is hashed with UserHash
package logging
