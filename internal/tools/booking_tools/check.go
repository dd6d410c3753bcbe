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

func parseCheckArgs(args common.Args, defaultEmployeeID int64) (dept.BookingQuery, error) {
	var q dept.BookingQuery
	var err error

	if q.From, err = dateArg(args, "from", false); err != nil {
		return q, err
	}
	if q.To, err = dateArg(args, "to", false); err != nil {
		return q, err
	}
	if q.EmployeeID, err = args.OptionalInt("employeeId"); err != nil {
		return q, err
	}
	if q.ID, err = args.OptionalInt("id"); err != nil {
		return q, err
	}

	q.From = orDefault(q.From, today())
	q.To = orDefault(q.To, today())
	q.EmployeeID = firstNonZero(q.EmployeeID, defaultEmployeeID)
	return q, nil
}

type dayTotal struct {
	hours   float64
	entries int
}

// checkSummary reports the total and a per-day breakdown of the entries.
func checkSummary(q dept.BookingQuery, list dept.BookingList) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📊 Booked Hours Summary (%s to %s)\n\n", longDate(q.From), longDate(q.To))
	fmt.Fprintf(&sb, "**Total Hours**: %s hours\n", formatHours(list.TotalHours()))
	fmt.Fprintf(&sb, "**Number of Entries**: %d\n\n", len(list.Entries))

	if len(list.Entries) == 0 {
		sb.WriteString("❌ No hours booked in this period.\n")
	} else {
		byDate := make(map[string]*dayTotal)
		for _, e := range list.Entries {
			day, _, _ := strings.Cut(e.Date, "T")
			if day == "" {
				day = "Unknown"
			}
			t, ok := byDate[day]
			if !ok {
				t = &dayTotal{}
				byDate[day] = t
			}
			t.hours += float64(e.Hours)
			t.entries++
		}

		sb.WriteString("**Daily Breakdown**:\n")
		for _, day := range sortedKeys(byDate) {
			t := byDate[day]
			fmt.Fprintf(&sb, "• %s: %s hours (%d entries)\n", longDate(day), formatHours(t.hours), t.entries)
		}
	}

	fmt.Fprintf(&sb, "\n**Full Details**:\n%s", prettyJSON(list.Raw))
	return sb.String()
}

func handleCheckBookedHours(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := parseCheckArgs(request.GetArguments(), sc.Defaults().EmployeeID)
		if err != nil {
			return common.InvalidParams(err), nil
		}

		list, err := sc.Bookings().ListBookings(ctx, q)
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "check booked hours", err), nil
		}

		return mcp.NewToolResultText(checkSummary(q, list)), nil
	}
}
