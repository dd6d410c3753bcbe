package dept

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt is an integer that decodes from a JSON number, a numeric string or null.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q", s)
	}
	*f = FlexInt(int64(v))
	return nil
}

// FlexFloat is a float that decodes from a JSON number, a numeric string or null.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s, err := flexString(data)
	if err != nil {
		return err
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// String formats the value without trailing zeros ("7.5", "8").
func (f FlexFloat) String() string {
	return strconv.FormatFloat(float64(f), 'f', -1, 64)
}

func flexString(data []byte) (string, error) {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return "", nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", err
		}
		return strings.TrimSpace(s), nil
	}
	return string(data), nil
}

// Repeat is the recurrence descriptor of a booking. Days is keyed by weekday
// number, "0" (Sunday) to "6" (Saturday).
type Repeat struct {
	Days  map[string]bool `json:"days"`
	Until string          `json:"until"`
}

// SingleDay returns the recurrence of a one-off booking on date (YYYY-MM-DD).
func SingleDay(date string) Repeat {
	return Repeat{Days: map[string]bool{}, Until: RepeatUntil(date)}
}

// RepeatUntil formats the end of a recurrence the way the API expects it.
func RepeatUntil(date string) string {
	return date + "T22:00:00.000Z"
}

// Booking is a time entry as returned by the API.
type Booking struct {
	ID                  FlexInt         `json:"id"`
	EmployeeID          FlexInt         `json:"employeeId,omitempty"`
	Date                string          `json:"date,omitempty"`
	Description         string          `json:"description,omitempty"`
	Hours               FlexFloat       `json:"hours,omitempty"`
	Repeat              *Repeat         `json:"repeat,omitempty"`
	IsLocked            bool            `json:"isLocked,omitempty"`
	ActivityID          FlexInt         `json:"activityId,omitempty"`
	ActivityName        string          `json:"activityName,omitempty"`
	BudgetID            FlexInt         `json:"budgetId,omitempty"`
	BudgetName          string          `json:"budgetName,omitempty"`
	CompanyID           FlexInt         `json:"companyId,omitempty"`
	CompanyName         string          `json:"companyName,omitempty"`
	EmployeeDisplayName string          `json:"employeeDisplayName,omitempty"`
	CorporationID       FlexInt         `json:"corporationId,omitempty"`
	ProjectID           FlexInt         `json:"projectId,omitempty"`
	ProjectName         string          `json:"projectName,omitempty"`
	RoleID              FlexInt         `json:"roleId,omitempty"`
	CanEdit             *bool           `json:"canEdit,omitempty"`
	ProjectTaskID       *FlexInt        `json:"projectTaskId,omitempty"`
	BudgetGroupName     string          `json:"budgetGroupName,omitempty"`
	TimeBookingTypeID   FlexInt         `json:"timeBookingTypeId,omitempty"`
	ProjectCategory     string          `json:"projectCategory,omitempty"`
	Dates               json.RawMessage `json:"dates,omitempty"`
	IsVacation          bool            `json:"isVacation,omitempty"`
}

// Editable reports whether the API allows the booking to be changed. A
// missing canEdit flag counts as editable.
func (b Booking) Editable() bool {
	if b.IsLocked {
		return false
	}
	return b.CanEdit == nil || *b.CanEdit
}

// NewBooking is the body of POST /bookedhours.
type NewBooking struct {
	EmployeeID    int64   `json:"employeeId"`
	Hours         float64 `json:"hours"`
	Date          string  `json:"date"`
	Description   string  `json:"description"`
	Repeat        Repeat  `json:"repeat"`
	IsLocked      bool    `json:"isLocked"`
	ActivityName  string  `json:"activityName,omitempty"`
	ActivityID    int64   `json:"activityId"`
	CorporationID int64   `json:"corporationId"`
	CompanyID     int64   `json:"companyId"`
	ProjectID     int64   `json:"projectId"`
	BudgetID      int64   `json:"budgetId"`
	IsVacation    bool    `json:"isVacation"`
}

// BulkBooking is the body of POST /bookedhours/bulk. Hours is sent as a
// string and a missing activity name as null.
type BulkBooking struct {
	EmployeeID    int64    `json:"employeeId"`
	Hours         string   `json:"hours"`
	Date          string   `json:"date"`
	Description   string   `json:"description"`
	Repeat        Repeat   `json:"repeat"`
	IsLocked      bool     `json:"isLocked"`
	ActivityName  *string  `json:"activityName"`
	ActivityID    int64    `json:"activityId"`
	CorporationID int64    `json:"corporationId"`
	CompanyID     int64    `json:"companyId"`
	ProjectID     int64    `json:"projectId"`
	BudgetID      int64    `json:"budgetId"`
	Dates         []string `json:"dates"`
	IsVacation    bool     `json:"isVacation"`
}

// BookingUpdate is the full record sent with PUT /bookedhours/{id}.
type BookingUpdate struct {
	EmployeeID          int64           `json:"employeeId"`
	ID                  int64           `json:"id"`
	Date                string          `json:"date"`
	Description         string          `json:"description"`
	Hours               string          `json:"hours"`
	Repeat              Repeat          `json:"repeat"`
	IsLocked            bool            `json:"isLocked"`
	ActivityID          int64           `json:"activityId"`
	ActivityName        string          `json:"activityName"`
	BudgetID            int64           `json:"budgetId"`
	BudgetName          string          `json:"budgetName"`
	CompanyID           int64           `json:"companyId"`
	CompanyName         string          `json:"companyName"`
	EmployeeDisplayName string          `json:"employeeDisplayName"`
	ProjectID           int64           `json:"projectId"`
	ProjectName         string          `json:"projectName"`
	RoleID              int64           `json:"roleId"`
	CanEdit             bool            `json:"canEdit"`
	ProjectTaskID       *int64          `json:"projectTaskId"`
	BudgetGroupName     string          `json:"budgetGroupName"`
	TimeBookingTypeID   int64           `json:"timeBookingTypeId"`
	ProjectCategory     string          `json:"projectCategory"`
	Dates               json.RawMessage `json:"dates"`
	IsVacation          bool            `json:"isVacation"`
}

// Budget is a budget returned by the search endpoints.
type Budget struct {
	ID               FlexInt   `json:"id"`
	Name             string    `json:"name,omitempty"`
	BudgetType       FlexInt   `json:"budgetType,omitempty"`
	CompanyID        FlexInt   `json:"companyId,omitempty"`
	CompanyNameShort string    `json:"companyNameShort,omitempty"`
	Hours            FlexFloat `json:"hours,omitempty"`
	ProjectID        FlexInt   `json:"projectId,omitempty"`
	ProjectName      string    `json:"projectName,omitempty"`
	SpendHours       FlexFloat `json:"spendHours,omitempty"`
	HoursLeft        FlexFloat `json:"hoursLeft,omitempty"`
	ActivityID       FlexInt   `json:"activityId,omitempty"`
	GroupName        string    `json:"groupName,omitempty"`
	CorporationID    FlexInt   `json:"corporationId,omitempty"`
}

// DisplayName returns the budget name or "Unnamed Budget".
func (b Budget) DisplayName() string {
	if b.Name == "" {
		return "Unnamed Budget"
	}
	return b.Name
}

// BudgetList is the result of a budget search. Raw keeps the response as
// the API sent it.
type BudgetList struct {
	Budgets []Budget
	Raw     json.RawMessage
}

// BookingList is the result of a custom booking query.
type BookingList struct {
	Entries []Booking
	Raw     json.RawMessage
}

// TotalHours sums the hours of every entry.
func (l BookingList) TotalHours() float64 {
	var total float64
	for _, e := range l.Entries {
		total += float64(e.Hours)
	}
	return total
}

// decodeBudgets accepts a bare array, {"data": [...]} or {"budgets": [...]}.
func decodeBudgets(raw json.RawMessage) ([]Budget, error) {
	return decodeList[Budget](raw, "data", "budgets")
}

// decodeBookings accepts {"result": [...]} or a bare array.
func decodeBookings(raw json.RawMessage) ([]Booking, error) {
	return decodeList[Booking](raw, "result")
}

// decodeList decodes a JSON array that is either the whole document or the
// value of the first present wrapper key. Any other shape yields an empty list.
func decodeList[T any](raw json.RawMessage, keys ...string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	switch raw[0] {
	case '[':
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		return items, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode list wrapper: %w", err)
		}
		for _, key := range keys {
			inner := bytes.TrimSpace(wrapper[key])
			if len(inner) == 0 || inner[0] != '[' {
				continue
			}
			var items []T
			if err := json.Unmarshal(inner, &items); err != nil {
				return nil, fmt.Errorf("failed to decode %s: %w", key, err)
			}
			return items, nil
		}
	}
	return nil, nil
}
