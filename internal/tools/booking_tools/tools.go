package booking_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/budget"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/tools/common"
)

// resolve asks the budget resolver for the booking metadata of description.
func resolve(ctx context.Context, sc *server.ServerContext, description string, corporationID int64) budget.Result {
	resolver := sc.Resolver()
	if resolver == nil {
		return budget.Result{Tier: budget.TierNone}
	}
	return resolver.Resolve(ctx, description, corporationID)
}

// bookingRefOptions are the optional identifiers accepted by the booking tools.
func bookingRefOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithNumber("budgetId",
			mcp.Description("Budget ID (optional, inferred from the description if not provided)"),
		),
		mcp.WithNumber("employeeId",
			mcp.Description("Employee ID (optional, uses the configured employee if not provided)"),
		),
		mcp.WithNumber("activityId",
			mcp.Description("Activity ID (optional)"),
		),
		mcp.WithString("activityName",
			mcp.Description("Activity name (optional)"),
		),
		mcp.WithNumber("projectId",
			mcp.Description("Project ID (optional)"),
		),
		mcp.WithNumber("companyId",
			mcp.Description("Company ID (optional)"),
		),
		mcp.WithNumber("corporationId",
			mcp.Description("Corporation ID (optional, uses the configured corporation if not provided)"),
		),
		mcp.WithBoolean("isVacation",
			mcp.Description("Whether the entry is vacation or other leave (default: false)"),
		),
	}
}

func hoursOption(name, description string, opts ...mcp.PropertyOption) mcp.ToolOption {
	opts = append([]mcp.PropertyOption{
		mcp.Description(description),
		mcp.Min(minHours),
		mcp.Max(maxHours),
	}, opts...)
	return mcp.WithNumber(name, opts...)
}

func dateOption(name, description string, opts ...mcp.PropertyOption) mcp.ToolOption {
	opts = append([]mcp.PropertyOption{
		mcp.Description(description),
		mcp.Pattern(datePattern.String()),
	}, opts...)
	return mcp.WithString(name, opts...)
}

// RegisterBookingTools registers all hour booking tools with the MCP server
func RegisterBookingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	bookHoursTool := mcp.NewTool("book_hours", append([]mcp.ToolOption{
		mcp.WithDescription("Book time entry in Dept system"),
		hoursOption("hours", "Number of hours to book (0.1-24)", mcp.Required()),
		dateOption("date", "Date in YYYY-MM-DD format", mcp.Required()),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Description of the work performed"),
		),
	}, bookingRefOptions()...)...)
	s.AddTool(bookHoursTool, common.InstrumentedToolHandler("book_hours", sc, handleBookHours(sc)))

	bookHoursBulkTool := mcp.NewTool("book_hours_bulk", append([]mcp.ToolOption{
		mcp.WithDescription("Book the same hours on every selected weekday of a date range in Dept system"),
		hoursOption("hours", "Number of hours to book per day (0.1-24)", mcp.Required()),
		dateOption("startDate", "First date of the range in YYYY-MM-DD format", mcp.Required()),
		dateOption("endDate", "Last date of the range in YYYY-MM-DD format (inclusive)", mcp.Required()),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("Description of the work performed"),
		),
		mcp.WithObject("weekdays",
			mcp.Description("Weekdays to book (default: Monday to Friday). Omitted days keep their default."),
			mcp.Properties(map[string]any{
				"monday":    map[string]any{"type": "boolean", "default": true},
				"tuesday":   map[string]any{"type": "boolean", "default": true},
				"wednesday": map[string]any{"type": "boolean", "default": true},
				"thursday":  map[string]any{"type": "boolean", "default": true},
				"friday":    map[string]any{"type": "boolean", "default": true},
				"saturday":  map[string]any{"type": "boolean", "default": false},
				"sunday":    map[string]any{"type": "boolean", "default": false},
			}),
		),
	}, bookingRefOptions()...)...)
	s.AddTool(bookHoursBulkTool, common.InstrumentedToolHandler("book_hours_bulk", sc, handleBookHoursBulk(sc)))

	updateHoursTool := mcp.NewTool("update_hours", append([]mcp.ToolOption{
		mcp.WithDescription("Update existing time entry. Fields that are not provided keep their current value."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("ID of the time entry to update"),
		),
		hoursOption("hours", "New number of hours"),
		dateOption("date", "New date in YYYY-MM-DD format"),
		mcp.WithString("description",
			mcp.Description("New description"),
		),
		mcp.WithString("budgetName",
			mcp.Description("New budget name (optional)"),
		),
		mcp.WithString("projectName",
			mcp.Description("New project name (optional)"),
		),
	}, bookingRefOptions()...)...)
	s.AddTool(updateHoursTool, common.InstrumentedToolHandler("update_hours", sc, handleUpdateHours(sc)))

	deleteHoursTool := mcp.NewTool("delete_hours",
		mcp.WithDescription("Delete a time entry from Dept system"),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("ID of the time entry to delete"),
		),
	)
	s.AddTool(deleteHoursTool, common.InstrumentedToolHandler("delete_hours", sc, handleDeleteHours(sc)))

	searchBudgetTool := mcp.NewTool("search_budget",
		mcp.WithDescription("Search for budgets by term"),
		mcp.WithString("term",
			mcp.Required(),
			mcp.Description("Search term for budget"),
		),
		mcp.WithNumber("corporationId",
			mcp.Description("Corporation ID (optional, uses default if not provided)"),
		),
	)
	s.AddTool(searchBudgetTool, common.InstrumentedToolHandler("search_budget", sc, handleSearchBudget(sc)))

	searchInternalBudgetsTool := mcp.NewTool("search_internal_budgets",
		mcp.WithDescription("Search internal budgets such as holiday, leave or sickness budgets"),
		mcp.WithString("searchTerm",
			mcp.Required(),
			mcp.Description("Search term for internal budget"),
		),
	)
	s.AddTool(searchInternalBudgetsTool, common.InstrumentedToolHandler("search_internal_budgets", sc, handleSearchInternalBudgets(sc)))

	checkBookedHoursTool := mcp.NewTool("check_booked_hours",
		mcp.WithDescription("Summarize booked hours for a date range, per day"),
		dateOption("from", "Start date in YYYY-MM-DD format", mcp.Required()),
		dateOption("to", "End date in YYYY-MM-DD format", mcp.Required()),
		mcp.WithNumber("employeeId",
			mcp.Description("Employee ID (optional, uses the configured employee if not provided)"),
		),
		mcp.WithNumber("id",
			mcp.Description("Only return the time entry with this ID (optional)"),
		),
	)
	s.AddTool(checkBookedHoursTool, common.InstrumentedToolHandler("check_booked_hours", sc, handleCheckBookedHours(sc)))

	return nil
}
