package booking_tools

import (
	"regexp"
	"strings"
	"time"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/tools/common"
)

const (
	minHours = 0.1
	maxHours = 24
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// hoursArg returns the hours argument, checking its range. ok is false when
// the argument is absent and not required.
func hoursArg(args common.Args, key string, required bool) (hours float64, ok bool, err error) {
	hours, ok, err = args.Float(key)
	if err != nil {
		return 0, false, err
	}
	if !ok {
		if required {
			return 0, false, common.Invalid(key, "is required")
		}
		return 0, false, nil
	}
	if hours < minHours || hours > maxHours {
		return 0, false, common.Invalid(key, "must be between %v and %v", minHours, maxHours)
	}
	return hours, true, nil
}

// dateArg returns a YYYY-MM-DD argument, "" when absent and not required.
func dateArg(args common.Args, key string, required bool) (string, error) {
	date, err := args.String(key)
	if err != nil {
		return "", err
	}
	if date == "" {
		if required {
			return "", common.Invalid(key, "is required")
		}
		return "", nil
	}
	if !datePattern.MatchString(date) {
		return "", common.Invalid(key, "must be in YYYY-MM-DD format, got %q", date)
	}
	if _, err := parseDate(date); err != nil {
		return "", common.Invalid(key, "%q is not a valid calendar date", date)
	}
	return date, nil
}

// bookingRefs are the optional identifiers shared by the booking tools.
type bookingRefs struct {
	BudgetID      int64
	EmployeeID    int64
	ActivityID    int64
	ActivityName  string
	ProjectID     int64
	CompanyID     int64
	CorporationID int64
	IsVacation    bool
}

func parseBookingRefs(args common.Args) (bookingRefs, error) {
	var refs bookingRefs
	var err error

	ints := []struct {
		key string
		dst *int64
	}{
		{"budgetId", &refs.BudgetID},
		{"employeeId", &refs.EmployeeID},
		{"activityId", &refs.ActivityID},
		{"projectId", &refs.ProjectID},
		{"companyId", &refs.CompanyID},
		{"corporationId", &refs.CorporationID},
	}
	for _, f := range ints {
		if *f.dst, err = args.OptionalInt(f.key); err != nil {
			return refs, err
		}
	}

	if refs.ActivityName, err = args.String("activityName"); err != nil {
		return refs, err
	}
	if refs.IsVacation, _, err = args.Bool("isVacation"); err != nil {
		return refs, err
	}
	return refs, nil
}

// parseWeekdays reads the weekdays object. Omitted days keep their default:
// Monday to Friday selected, the weekend not.
func parseWeekdays(args common.Args) (Weekdays, error) {
	obj, err := args.Object("weekdays")
	if err != nil {
		return nil, err
	}

	weekdays := make(Weekdays)
	for _, day := range weekOrder {
		key := strings.ToLower(day.String())
		selected, ok, err := obj.Bool(key)
		if err != nil {
			return nil, common.Invalid("weekdays."+key, "expected a boolean")
		}
		if !ok {
			selected = day != time.Saturday && day != time.Sunday
		}
		weekdays[day] = selected
	}
	return weekdays, nil
}
