package budget

import "strings"

// PersonalKeywords mark a description as leave or other personal time that
// is booked on an internal budget.
var PersonalKeywords = []string{
	"holiday",
	"vacation",
	"vakantie",
	"verlof",
	"leave",
	"day off",
	"sick",
	"ziek",
	"illness",
	"doctor",
	"dentist",
	"medical",
	"parental",
	"funeral",
	"wedding",
	"moving day",
	"personal",
}

// HolidayKeywords mark a personal description as a vacation booking.
var HolidayKeywords = []string{
	"holiday",
	"vacation",
	"vakantie",
	"verlof",
	"leave",
	"day off",
	"sick",
	"ziek",
}

// containsAny reports whether the lower-cased text contains any keyword.
// Matching is plain substring containment, so "unleaved" matches "leave".
func containsAny(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// IsPersonal reports whether description mentions a personal keyword.
func IsPersonal(description string) bool {
	return containsAny(description, PersonalKeywords)
}

// IsHoliday reports whether description mentions a holiday keyword.
func IsHoliday(description string) bool {
	return containsAny(description, HolidayKeywords)
}
