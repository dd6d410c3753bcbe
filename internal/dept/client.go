package dept

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Lookup window used to find a single booking through the custom list
// endpoint, which replaced the deprecated single-record GET.
const (
	lookupFrom = "2000-01-01"
	lookupTo   = "2100-01-01"
)

// Caller is the call primitive a Client is built on. *Gateway implements it.
type Caller interface {
	Call(ctx context.Context, path string, opts CallOptions) (json.RawMessage, error)
}

// Client exposes the booking and budget endpoints.
type Client struct {
	api Caller
}

// NewClient creates a Client on top of api.
func NewClient(api Caller) *Client {
	return &Client{api: api}
}

// CreateBooking posts a single booking.
func (c *Client) CreateBooking(ctx context.Context, b NewBooking) (json.RawMessage, error) {
	return c.api.Call(ctx, "/bookedhours", CallOptions{Method: http.MethodPost, Body: b})
}

// CreateBulkBooking posts a recurring booking.
func (c *Client) CreateBulkBooking(ctx context.Context, b BulkBooking) (json.RawMessage, error) {
	return c.api.Call(ctx, "/bookedhours/bulk", CallOptions{Method: http.MethodPost, Body: b})
}

// UpdateBooking replaces the booking with the given id.
func (c *Client) UpdateBooking(ctx context.Context, id int64, b BookingUpdate) (json.RawMessage, error) {
	return c.api.Call(ctx, "/bookedhours/"+strconv.FormatInt(id, 10), CallOptions{Method: http.MethodPut, Body: b})
}

// DeleteBooking deletes the booking with the given id.
func (c *Client) DeleteBooking(ctx context.Context, id int64) (json.RawMessage, error) {
	return c.api.Call(ctx, "/bookedhours/"+strconv.FormatInt(id, 10), CallOptions{Method: http.MethodDelete})
}

// BookingQuery selects bookings of one employee in a date range.
type BookingQuery struct {
	EmployeeID int64
	From       string
	To         string
	// ID optionally narrows the result to one booking.
	ID int64
}

func (q BookingQuery) path() string {
	params := url.Values{}
	params.Set("from", q.From)
	params.Set("to", q.To)
	if q.ID != 0 {
		params.Set("id", strconv.FormatInt(q.ID, 10))
	}
	return fmt.Sprintf("/bookedhours/custom/%d?%s", q.EmployeeID, params.Encode())
}

// ListBookings runs a custom booking query.
func (c *Client) ListBookings(ctx context.Context, q BookingQuery) (BookingList, error) {
	raw, err := c.api.Call(ctx, q.path(), CallOptions{})
	if err != nil {
		return BookingList{}, err
	}
	entries, err := decodeBookings(raw)
	if err != nil {
		return BookingList{}, err
	}
	return BookingList{Entries: entries, Raw: raw}, nil
}

// FindBooking looks up a single booking of employeeID by id. It returns
// *NotFoundError when the query has no entry with that id.
func (c *Client) FindBooking(ctx context.Context, employeeID, id int64) (*Booking, error) {
	list, err := c.ListBookings(ctx, BookingQuery{
		EmployeeID: employeeID,
		From:       lookupFrom,
		To:         lookupTo,
		ID:         id,
	})
	if err != nil {
		return nil, err
	}
	for i := range list.Entries {
		if int64(list.Entries[i].ID) == id {
			return &list.Entries[i], nil
		}
	}
	return nil, &NotFoundError{ID: id}
}

// SearchBudgets runs a full-text budget search within a corporation.
func (c *Client) SearchBudgets(ctx context.Context, term string, corporationID int64) (BudgetList, error) {
	params := url.Values{}
	params.Set("searchTerm", term)
	params.Set("corporationId", strconv.FormatInt(corporationID, 10))
	return c.searchBudgets(ctx, "/budgets/search?"+params.Encode())
}

// SearchInternalBudgets searches the internal (leave, overhead) budgets.
func (c *Client) SearchInternalBudgets(ctx context.Context, term string) (BudgetList, error) {
	params := url.Values{}
	params.Set("searchTerm", term)
	return c.searchBudgets(ctx, "/budgets/search/internal?"+params.Encode())
}

func (c *Client) searchBudgets(ctx context.Context, path string) (BudgetList, error) {
	raw, err := c.api.Call(ctx, path, CallOptions{})
	if err != nil {
		return BudgetList{}, err
	}
	budgets, err := decodeBudgets(raw)
	if err != nil {
		return BudgetList{}, err
	}
	return BudgetList{Budgets: budgets, Raw: raw}, nil
}
