// Package cmd implements the command-line interface for dept-hour-booking-mcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server with the booking tools and the OAuth callback receiver
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// serve is also the composition root: it wires configuration, the token
// lifecycle, the Dept API gateway, the budget resolver and the transports.
package cmd
