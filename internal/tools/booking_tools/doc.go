// Package booking_tools provides the MCP tools for booking, changing and
// reviewing hours in the Dept time registration system.
//
// Tools:
//   - book_hours: book hours on a single day
//   - book_hours_bulk: book the same hours on every selected weekday of a date range
//   - update_hours: change an existing time entry, keeping unspecified fields
//   - delete_hours: delete a time entry
//   - check_booked_hours: summarize the entries of a period per day
//   - search_budget: search client budgets
//   - search_internal_budgets: search internal budgets (leave, sickness, ...)
//
// When no budget is given, bookings ask the budget resolver to infer one from
// the description. If the user has not signed in with Google yet, every tool
// answers with the sign-in link instead of failing.
package booking_tools
