package booking_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/tools/common"
)

// searchSummary lists the budgets found for term. kind is "budgets" or
// "internal budgets".
func searchSummary(kind, term string, list dept.BudgetList) string {
	lines := make([]string, len(list.Budgets))
	for i, b := range list.Budgets {
		lines[i] = fmt.Sprintf("%d. %s (ID: %d)", i+1, b.DisplayName(), int64(b.ID))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 Found %d %s matching \"%s\"\n\n", len(list.Budgets), kind, term)
	sb.WriteString(strings.Join(lines, "\n"))
	fmt.Fprintf(&sb, "\n\nFull results:\n%s", prettyJSON(list.Raw))
	return sb.String()
}

func handleSearchBudget(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := common.Args(request.GetArguments())
		term, err := args.RequiredString("term")
		if err != nil {
			return common.InvalidParams(err), nil
		}
		corporationID, err := args.OptionalInt("corporationId")
		if err != nil {
			return common.InvalidParams(err), nil
		}

		list, err := sc.Bookings().SearchBudgets(ctx, term, firstNonZero(corporationID, sc.Defaults().CorporationID))
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "search budgets", err), nil
		}

		return mcp.NewToolResultText(searchSummary("budgets", term, list)), nil
	}
}

func handleSearchInternalBudgets(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		term, err := common.Args(request.GetArguments()).RequiredString("searchTerm")
		if err != nil {
			return common.InvalidParams(err), nil
		}

		list, err := sc.Bookings().SearchInternalBudgets(ctx, term)
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "search internal budgets", err), nil
		}

		return mcp.NewToolResultText(searchSummary("internal budgets", term, list)), nil
	}
}
