package booking_tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/budget"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/config"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/tools/common"
)

type bulkArgs struct {
	Hours       float64
	StartDate   string
	EndDate     string
	Description string
	Weekdays    Weekdays
	bookingRefs
}

func parseBulkArgs(args common.Args) (bulkArgs, error) {
	var in bulkArgs
	var err error

	if in.Hours, _, err = hoursArg(args, "hours", true); err != nil {
		return in, err
	}
	if in.StartDate, err = dateArg(args, "startDate", true); err != nil {
		return in, err
	}
	if in.EndDate, err = dateArg(args, "endDate", true); err != nil {
		return in, err
	}
	if in.Description, err = args.RequiredString("description"); err != nil {
		return in, err
	}
	if in.Weekdays, err = parseWeekdays(args); err != nil {
		return in, err
	}
	in.bookingRefs, err = parseBookingRefs(args)
	return in, err
}

// newBulkBooking builds the body of a bulk booking over the generated dates.
func newBulkBooking(in bulkArgs, res budget.Result, defaults config.Defaults) (dept.BulkBooking, error) {
	refs := resolvedRefs(in.bookingRefs, res)
	if refs.BudgetID == 0 {
		return dept.BulkBooking{}, ErrBudgetUnresolved
	}

	dates, err := GenerateDates(in.StartDate, in.EndDate, in.Weekdays)
	if err != nil {
		return dept.BulkBooking{}, err
	}
	if len(dates) == 0 {
		return dept.BulkBooking{}, ErrNoDates
	}

	var activityName *string
	if refs.ActivityName != "" {
		activityName = &refs.ActivityName
	}

	return dept.BulkBooking{
		EmployeeID:  firstNonZero(refs.EmployeeID, defaults.EmployeeID),
		Hours:       formatHours(in.Hours),
		Date:        in.StartDate,
		Description: in.Description,
		Repeat: dept.Repeat{
			Days:  in.Weekdays.RepeatDays(),
			Until: dept.RepeatUntil(in.EndDate),
		},
		IsLocked:      false,
		ActivityName:  activityName,
		ActivityID:    firstNonZero(refs.ActivityID, defaults.ActivityID),
		CorporationID: firstNonZero(refs.CorporationID, defaults.CorporationID),
		CompanyID:     firstNonZero(refs.CompanyID, defaults.CompanyID),
		ProjectID:     firstNonZero(refs.ProjectID, defaults.ProjectID),
		BudgetID:      refs.BudgetID,
		Dates:         dates,
		IsVacation:    refs.IsVacation,
	}, nil
}

func bulkSummary(in bulkArgs, b dept.BulkBooking, result json.RawMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Successfully booked %s hours per day in bulk\n\n", formatHours(in.Hours))
	sb.WriteString("Details:\n")
	fmt.Fprintf(&sb, "- Date Range: %s to %s\n", in.StartDate, in.EndDate)
	fmt.Fprintf(&sb, "- Days: %s\n", in.Weekdays.Names())
	fmt.Fprintf(&sb, "- Total Days: %d\n", len(b.Dates))
	fmt.Fprintf(&sb, "- Total Hours: %s\n", formatHours(in.Hours*float64(len(b.Dates))))
	fmt.Fprintf(&sb, "- Description: %s\n", in.Description)
	fmt.Fprintf(&sb, "- Budget ID: %d\n\n", b.BudgetID)
	fmt.Fprintf(&sb, "Dates booked: %s\n\n", strings.Join(b.Dates, ", "))
	fmt.Fprintf(&sb, "Result: %s", prettyJSON(result))
	return sb.String()
}

func handleBookHoursBulk(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := parseBulkArgs(request.GetArguments())
		if err != nil {
			return common.InvalidParams(err), nil
		}

		res := resolve(ctx, sc, in.Description, in.CorporationID)
		booking, err := newBulkBooking(in, res, sc.Defaults())
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "book hours in bulk", err), nil
		}

		result, err := sc.Bookings().CreateBulkBooking(ctx, booking)
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "book hours in bulk", err), nil
		}

		return mcp.NewToolResultText(bulkSummary(in, booking, result)), nil
	}
}
