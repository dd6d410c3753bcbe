package booking_tools

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// weekOrder lists weekdays the way they are presented to users.
var weekOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

// Weekdays is a weekday selection.
type Weekdays map[time.Weekday]bool

// DefaultWeekdays selects Monday to Friday.
func DefaultWeekdays() Weekdays {
	return Weekdays{
		time.Monday:    true,
		time.Tuesday:   true,
		time.Wednesday: true,
		time.Thursday:  true,
		time.Friday:    true,
	}
}

// selected returns the chosen weekdays in week order.
func (w Weekdays) selected() []time.Weekday {
	var days []time.Weekday
	for _, d := range weekOrder {
		if w[d] {
			days = append(days, d)
		}
	}
	return days
}

// effective returns w, or Monday to Friday when nothing is selected.
func (w Weekdays) effective() Weekdays {
	if len(w.selected()) == 0 {
		return DefaultWeekdays()
	}
	return w
}

// RepeatDays returns the selection keyed by weekday number, "0" being
// Sunday, as the bulk endpoint expects it.
func (w Weekdays) RepeatDays() map[string]bool {
	days := make(map[string]bool)
	for _, d := range w.effective().selected() {
		days[strconv.Itoa(int(d))] = true
	}
	return days
}

// Names returns the selected day names joined by commas, or
// "Monday-Friday" when nothing is selected.
func (w Weekdays) Names() string {
	days := w.selected()
	if len(days) == 0 {
		return "Monday-Friday"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, ", ")
}

// parseDate parses a YYYY-MM-DD calendar date in UTC.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

// GenerateDates returns every date from start to end inclusive that falls on
// a selected weekday, in ascending order. An empty selection means Monday to
// Friday. A start after end yields no dates.
func GenerateDates(start, end string, weekdays Weekdays) ([]string, error) {
	from, err := parseDate(start)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(end)
	if err != nil {
		return nil, err
	}

	days := weekdays.effective()
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if days[d.Weekday()] {
			dates = append(dates, d.Format(dateLayout))
		}
	}
	return dates, nil
}

// longDate renders a date like "Monday, July 7, 2025". A time suffix is
// ignored; anything unparseable is returned unchanged.
func longDate(s string) string {
	day, _, _ := strings.Cut(s, "T")
	t, err := time.Parse(dateLayout, day)
	if err != nil {
		return s
	}
	return t.Format("Monday, January 2, 2006")
}

// today returns the current UTC date.
func today() string {
	return time.Now().UTC().Format(dateLayout)
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
