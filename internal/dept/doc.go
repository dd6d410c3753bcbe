// Package dept talks to the Dept time-tracking REST API.
//
// Gateway is the single authenticated call primitive: it resolves a bearer
// token before every request, builds the absolute URL from the configured
// base URL, and maps non-2xx responses to *APIError. Client layers typed
// booking and budget operations on top of it.
//
// The API is not strict about number encodings (ids and hours arrive as
// numbers or numeric strings), so the DTOs in this package use FlexInt and
// FlexFloat for those fields.
package dept
