package booking_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/tools/common"
)

func deleteSummary(id int64, deleted dept.Booking, result json.RawMessage) string {
	date := "Unknown"
	if deleted.Date != "" {
		date = longDate(deleted.Date)
	}
	hours := "Unknown"
	if deleted.Hours != 0 {
		hours = deleted.Hours.String()
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗑️ Successfully deleted time entry (ID: %d)\n\n", id)
	sb.WriteString("**Deleted Entry Details:**\n")
	fmt.Fprintf(&sb, "- Date: %s\n", date)
	fmt.Fprintf(&sb, "- Hours: %s\n", hours)
	fmt.Fprintf(&sb, "- Description: %s\n", orDefault(deleted.Description, "No description"))
	fmt.Fprintf(&sb, "- Project: %s\n", orDefault(deleted.ProjectName, "Unknown"))
	fmt.Fprintf(&sb, "- Budget: %s\n\n", orDefault(deleted.BudgetName, "Unknown"))
	fmt.Fprintf(&sb, "**Deletion Result:** %s", prettyJSON(result))
	return sb.String()
}

func handleDeleteHours(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := common.Args(request.GetArguments()).RequiredInt("id")
		if err != nil {
			return common.InvalidParams(err), nil
		}

		existing, err := sc.Bookings().FindBooking(ctx, sc.Defaults().EmployeeID, id)
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "delete hours", err), nil
		}

		result, err := sc.Bookings().DeleteBooking(ctx, id)
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "delete hours", err), nil
		}

		return mcp.NewToolResultText(deleteSummary(id, *existing, result)), nil
	}
}
