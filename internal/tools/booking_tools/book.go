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

type bookHoursArgs struct {
	Hours       float64
	Date        string
	Description string
	bookingRefs
}

func parseBookHoursArgs(args common.Args) (bookHoursArgs, error) {
	var in bookHoursArgs
	var err error

	if in.Hours, _, err = hoursArg(args, "hours", true); err != nil {
		return in, err
	}
	if in.Date, err = dateArg(args, "date", true); err != nil {
		return in, err
	}
	if in.Description, err = args.RequiredString("description"); err != nil {
		return in, err
	}
	in.bookingRefs, err = parseBookingRefs(args)
	return in, err
}

// resolvedRefs merges explicit arguments over the resolver result. Static
// defaults are applied by the payload builders.
func resolvedRefs(in bookingRefs, res budget.Result) bookingRefs {
	out := in
	out.BudgetID = firstNonZero(in.BudgetID, res.BudgetID)
	out.ActivityID = firstNonZero(in.ActivityID, res.ActivityID)
	out.ActivityName = orDefault(in.ActivityName, res.ActivityName)
	out.ProjectID = firstNonZero(in.ProjectID, res.ProjectID)
	out.CompanyID = firstNonZero(in.CompanyID, res.CompanyID)
	out.CorporationID = firstNonZero(in.CorporationID, res.CorporationID)
	out.IsVacation = in.IsVacation || res.IsVacation
	return out
}

// newBooking builds the body of a single-day booking.
func newBooking(in bookHoursArgs, res budget.Result, defaults config.Defaults) (dept.NewBooking, error) {
	refs := resolvedRefs(in.bookingRefs, res)
	if refs.BudgetID == 0 {
		return dept.NewBooking{}, ErrBudgetUnresolved
	}

	return dept.NewBooking{
		EmployeeID:    firstNonZero(refs.EmployeeID, defaults.EmployeeID),
		Hours:         in.Hours,
		Date:          in.Date,
		Description:   in.Description,
		Repeat:        dept.SingleDay(in.Date),
		IsLocked:      false,
		ActivityName:  refs.ActivityName,
		ActivityID:    firstNonZero(refs.ActivityID, defaults.ActivityID),
		CorporationID: firstNonZero(refs.CorporationID, defaults.CorporationID),
		CompanyID:     firstNonZero(refs.CompanyID, defaults.CompanyID),
		ProjectID:     firstNonZero(refs.ProjectID, defaults.ProjectID),
		BudgetID:      refs.BudgetID,
		IsVacation:    refs.IsVacation,
	}, nil
}

// createdID extracts the id of a created record, if the API returned one.
func createdID(raw json.RawMessage) int64 {
	var created struct {
		ID dept.FlexInt `json:"id"`
	}
	if err := json.Unmarshal(raw, &created); err != nil {
		return 0
	}
	return int64(created.ID)
}

func bookSummary(b dept.NewBooking, result json.RawMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Successfully booked %s hours for %s\n\n", formatHours(b.Hours), b.Date)
	sb.WriteString("Details:\n")
	fmt.Fprintf(&sb, "- Description: %s\n", b.Description)
	fmt.Fprintf(&sb, "- Budget ID: %d\n", b.BudgetID)
	fmt.Fprintf(&sb, "- Booking ID: %s\n\n", formatID(createdID(result), "N/A"))
	fmt.Fprintf(&sb, "Result: %s", prettyJSON(result))
	return sb.String()
}

func handleBookHours(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := parseBookHoursArgs(request.GetArguments())
		if err != nil {
			return common.InvalidParams(err), nil
		}

		res := resolve(ctx, sc, in.Description, in.CorporationID)
		booking, err := newBooking(in, res, sc.Defaults())
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "book hours", err), nil
		}

		result, err := sc.Bookings().CreateBooking(ctx, booking)
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "book hours", err), nil
		}

		return mcp.NewToolResultText(bookSummary(booking, result)), nil
	}
}
