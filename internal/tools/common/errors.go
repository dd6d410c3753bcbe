package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/auth"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/logging"
)

// InvalidParams is the result for arguments that fail validation.
func InvalidParams(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("invalid parameters: " + err.Error())
}

// ErrorResult turns a handler error into a tool result.
//
// An authentication prompt is returned as ordinary text so the agent shows
// the sign-in link to the user. Anything else is logged and reported as
// "Failed to <operation>: <error>".
func ErrorResult(ctx context.Context, logger *slog.Logger, operation string, err error) *mcp.CallToolResult {
	var prompt *auth.AuthRequiredError
	if errors.As(err, &prompt) {
		logger.InfoContext(ctx, "authentication required", logging.Operation(operation))
		return mcp.NewToolResultText(prompt.Prompt())
	}

	var invalid *ValidationError
	if errors.As(err, &invalid) {
		return InvalidParams(invalid)
	}

	logger.ErrorContext(ctx, "tool operation failed", logging.Operation(operation), logging.Err(err))
	return mcp.NewToolResultError(fmt.Sprintf("Failed to %s: %v", operation, err))
}
