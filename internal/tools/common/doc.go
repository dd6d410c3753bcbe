// Package common provides shared utilities for MCP tool implementations:
// the instrumented handler wrapper, typed access to tool arguments, and the
// translation of handler errors into tool results.
package common
