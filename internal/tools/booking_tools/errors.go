package booking_tools

import "errors"

var (
	// ErrBudgetUnresolved is returned when neither the arguments, the
	// resolver nor the defaults yield a budget.
	ErrBudgetUnresolved = errors.New("Budget ID is required and could not be determined")

	// ErrBookingLocked is returned for updates of locked or read-only entries.
	ErrBookingLocked = errors.New("Cannot update hours: budget is locked.")

	// ErrNoDates is returned when a bulk range contains no selected weekday.
	ErrNoDates = errors.New("No valid dates found for the specified range and weekday selection")
)
