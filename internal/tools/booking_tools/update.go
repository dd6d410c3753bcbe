package booking_tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/budget"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/config"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/tools/common"
)

// Fallbacks for fields neither the caller, the existing record nor the
// resolver could fill.
const (
	defaultActivityName        = "Implementation"
	defaultBudgetName          = "Default Budget"
	defaultCompanyName         = "Default Company"
	defaultEmployeeDisplayName = "Employee"
	defaultProjectName         = "Default Project"
	defaultBudgetGroupName     = "Default Budget Group"
	defaultProjectCategory     = "Client"
	defaultRoleID              = 33
	defaultTimeBookingTypeID   = 1
)

type updateArgs struct {
	ID          int64
	Hours       float64
	HasHours    bool
	Date        string
	Description string
	BudgetName  string
	ProjectName string
	bookingRefs
}

func parseUpdateArgs(args common.Args) (updateArgs, error) {
	var in updateArgs
	var err error

	if in.ID, err = args.RequiredInt("id"); err != nil {
		return in, err
	}
	if in.Hours, in.HasHours, err = hoursArg(args, "hours", false); err != nil {
		return in, err
	}
	if in.Date, err = dateArg(args, "date", false); err != nil {
		return in, err
	}
	if in.Description, err = args.String("description"); err != nil {
		return in, err
	}
	if in.BudgetName, err = args.String("budgetName"); err != nil {
		return in, err
	}
	if in.ProjectName, err = args.String("projectName"); err != nil {
		return in, err
	}
	in.bookingRefs, err = parseBookingRefs(args)
	return in, err
}

// mergedFields are the booking references after arguments, the existing
// record and the resolver have been applied, before static fallbacks.
type mergedFields struct {
	BudgetID     int64
	BudgetName   string
	ActivityID   int64
	ActivityName string
	ProjectID    int64
	ProjectName  string
	CompanyID    int64
	IsVacation   bool
}

func mergeFields(in updateArgs, existing dept.Booking, res budget.Result) mergedFields {
	return mergedFields{
		BudgetID:     firstNonZero(in.BudgetID, int64(existing.BudgetID), res.BudgetID),
		BudgetName:   orDefault(in.BudgetName, existing.BudgetName),
		ActivityID:   firstNonZero(in.ActivityID, int64(existing.ActivityID), res.ActivityID),
		ActivityName: orDefault(orDefault(in.ActivityName, existing.ActivityName), res.ActivityName),
		ProjectID:    firstNonZero(in.ProjectID, int64(existing.ProjectID), res.ProjectID),
		ProjectName:  orDefault(orDefault(in.ProjectName, existing.ProjectName), res.ProjectName),
		CompanyID:    firstNonZero(in.CompanyID, int64(existing.CompanyID), res.CompanyID),
		IsVacation:   in.IsVacation || existing.IsVacation || res.IsVacation,
	}
}

// bookingUpdate builds the full record sent with the update. Every field
// not given by the caller keeps its existing value.
func bookingUpdate(in updateArgs, existing dept.Booking, m mergedFields, defaults config.Defaults) (dept.BookingUpdate, error) {
	date := orDefault(in.Date, existing.Date)
	description := orDefault(in.Description, existing.Description)

	hours := ""
	switch {
	case in.HasHours:
		hours = formatHours(in.Hours)
	case existing.Hours != 0:
		hours = existing.Hours.String()
	}

	if date == "" {
		return dept.BookingUpdate{}, errors.New("Date is required and could not be determined from existing record")
	}
	if description == "" {
		return dept.BookingUpdate{}, errors.New("Description is required and could not be determined from existing record")
	}
	if hours == "" {
		return dept.BookingUpdate{}, errors.New("Hours is required and could not be determined from existing record")
	}

	repeat := dept.SingleDay(date)
	if existing.Repeat != nil {
		repeat = *existing.Repeat
	}

	canEdit := true
	if existing.CanEdit != nil {
		canEdit = *existing.CanEdit
	}

	var projectTaskID *int64
	if existing.ProjectTaskID != nil && *existing.ProjectTaskID != 0 {
		id := int64(*existing.ProjectTaskID)
		projectTaskID = &id
	}

	return dept.BookingUpdate{
		EmployeeID:          firstNonZero(int64(existing.EmployeeID), defaults.EmployeeID),
		ID:                  in.ID,
		Date:                date,
		Description:         description,
		Hours:               hours,
		Repeat:              repeat,
		IsLocked:            existing.IsLocked,
		ActivityID:          firstNonZero(m.ActivityID, defaults.ActivityID),
		ActivityName:        orDefault(m.ActivityName, defaultActivityName),
		BudgetID:            firstNonZero(m.BudgetID, defaults.BudgetID),
		BudgetName:          orDefault(m.BudgetName, defaultBudgetName),
		CompanyID:           firstNonZero(m.CompanyID, defaults.CompanyID),
		CompanyName:         orDefault(existing.CompanyName, defaultCompanyName),
		EmployeeDisplayName: orDefault(existing.EmployeeDisplayName, defaultEmployeeDisplayName),
		ProjectID:           firstNonZero(m.ProjectID, defaults.ProjectID),
		ProjectName:         orDefault(m.ProjectName, defaultProjectName),
		RoleID:              firstNonZero(int64(existing.RoleID), defaultRoleID),
		CanEdit:             canEdit,
		ProjectTaskID:       projectTaskID,
		BudgetGroupName:     orDefault(existing.BudgetGroupName, defaultBudgetGroupName),
		TimeBookingTypeID:   firstNonZero(int64(existing.TimeBookingTypeID), defaultTimeBookingTypeID),
		ProjectCategory:     orDefault(existing.ProjectCategory, defaultProjectCategory),
		Dates:               existing.Dates,
		IsVacation:          m.IsVacation || budget.IsHoliday(description),
	}, nil
}

// describeChanges lists what the update changed compared to the existing record.
func describeChanges(in updateArgs, existing dept.Booking, m mergedFields, update dept.BookingUpdate) []string {
	var changes []string
	if in.HasHours {
		changes = append(changes, fmt.Sprintf("- Hours: %s → %s", existing.Hours, formatHours(in.Hours)))
	}
	if in.Date != "" {
		changes = append(changes, fmt.Sprintf("- Date: %s → %s", existing.Date, in.Date))
	}
	if in.Description != "" {
		changes = append(changes, fmt.Sprintf("- Description: \"%s\" → \"%s\"", existing.Description, in.Description))
	}
	if in.ActivityName != "" && in.ActivityName != existing.ActivityName {
		changes = append(changes, fmt.Sprintf("- Activity Name: \"%s\" → \"%s\"", existing.ActivityName, in.ActivityName))
	}
	if m.ProjectName != existing.ProjectName {
		changes = append(changes, fmt.Sprintf("- Project Name: \"%s\" → \"%s\"", existing.ProjectName, m.ProjectName))
	}
	if m.ActivityID != int64(existing.ActivityID) {
		changes = append(changes, fmt.Sprintf("- Activity: %s → %s",
			nameOrID(existing.ActivityName, int64(existing.ActivityID)), nameOrID(m.ActivityName, m.ActivityID)))
	}
	if m.BudgetID != int64(existing.BudgetID) {
		changes = append(changes, fmt.Sprintf("- Budget: %s → %s",
			nameOrID(existing.BudgetName, int64(existing.BudgetID)), nameOrID(update.BudgetName, m.BudgetID)))
	}
	if m.IsVacation != existing.IsVacation {
		changes = append(changes, fmt.Sprintf("- isVacation: %s → %s", yesNo(existing.IsVacation), yesNo(m.IsVacation)))
	}
	if m.ProjectID != int64(existing.ProjectID) {
		changes = append(changes, fmt.Sprintf("- Project: %s → %s",
			nameOrID(existing.ProjectName, int64(existing.ProjectID)), nameOrID(update.ProjectName, m.ProjectID)))
	}
	return changes
}

func nameOrID(name string, id int64) string {
	if name != "" {
		return name
	}
	return strconv.FormatInt(id, 10)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func updateSummary(id int64, changes []string, result json.RawMessage) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Successfully updated booking %d\n\n", id)
	if len(changes) > 0 {
		fmt.Fprintf(&sb, "Changes made:\n%s\n\n", strings.Join(changes, "\n"))
	} else {
		sb.WriteString("No changes were made.\n\n")
	}
	sb.WriteString("Preserved fields:\n- All other fields maintained their original values\n\n")
	fmt.Fprintf(&sb, "Updated record: %s", prettyJSON(result))
	return sb.String()
}

func handleUpdateHours(sc *server.ServerContext) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		in, err := parseUpdateArgs(request.GetArguments())
		if err != nil {
			return common.InvalidParams(err), nil
		}

		existing, err := sc.Bookings().FindBooking(ctx, sc.Defaults().EmployeeID, in.ID)
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "update hours", err), nil
		}
		if !existing.Editable() {
			return common.ErrorResult(ctx, sc.Logger(), "update hours", ErrBookingLocked), nil
		}

		description := orDefault(in.Description, existing.Description)
		corporationID := firstNonZero(in.CorporationID, int64(existing.CorporationID))
		res := resolve(ctx, sc, description, corporationID)

		merged := mergeFields(in, *existing, res)
		update, err := bookingUpdate(in, *existing, merged, sc.Defaults())
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "update hours", err), nil
		}

		result, err := sc.Bookings().UpdateBooking(ctx, in.ID, update)
		if err != nil {
			return common.ErrorResult(ctx, sc.Logger(), "update hours", err), nil
		}

		changes := describeChanges(in, *existing, merged, update)
		return mcp.NewToolResultText(updateSummary(in.ID, changes, result)), nil
	}
}
