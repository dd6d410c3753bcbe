package booking_tools

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/budget"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/config"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/server"
)

// fakeBookings records the calls made by the tools.
type fakeBookings struct {
	created  []dept.NewBooking
	bulk     []dept.BulkBooking
	updated  []dept.BookingUpdate
	deleted  []int64
	queries  []dept.BookingQuery
	searches []string

	existing *dept.Booking
	list     dept.BookingList
	budgets  dept.BudgetList
	result   json.RawMessage
	err      error
	findErr  error
}

func (f *fakeBookings) CreateBooking(ctx context.Context, b dept.NewBooking) (json.RawMessage, error) {
	f.created = append(f.created, b)
	return f.result, f.err
}

func (f *fakeBookings) CreateBulkBooking(ctx context.Context, b dept.BulkBooking) (json.RawMessage, error) {
	f.bulk = append(f.bulk, b)
	return f.result, f.err
}

func (f *fakeBookings) UpdateBooking(ctx context.Context, id int64, b dept.BookingUpdate) (json.RawMessage, error) {
	f.updated = append(f.updated, b)
	return f.result, f.err
}

func (f *fakeBookings) DeleteBooking(ctx context.Context, id int64) (json.RawMessage, error) {
	f.deleted = append(f.deleted, id)
	return f.result, f.err
}

func (f *fakeBookings) ListBookings(ctx context.Context, q dept.BookingQuery) (dept.BookingList, error) {
	f.queries = append(f.queries, q)
	return f.list, f.err
}

func (f *fakeBookings) FindBooking(ctx context.Context, employeeID, id int64) (*dept.Booking, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.existing == nil || int64(f.existing.ID) != id {
		return nil, &dept.NotFoundError{ID: id}
	}
	b := *f.existing
	return &b, nil
}

func (f *fakeBookings) SearchBudgets(ctx context.Context, term string, corporationID int64) (dept.BudgetList, error) {
	f.searches = append(f.searches, term)
	return f.budgets, f.err
}

func (f *fakeBookings) SearchInternalBudgets(ctx context.Context, term string) (dept.BudgetList, error) {
	f.searches = append(f.searches, "internal:"+term)
	return f.budgets, f.err
}

// fakeResolver returns a fixed result and records the descriptions.
type fakeResolver struct {
	result       budget.Result
	descriptions []string
}

func (r *fakeResolver) Resolve(ctx context.Context, description string, corporationID int64) budget.Result {
	r.descriptions = append(r.descriptions, description)
	return r.result
}

var testDefaults = config.Defaults{
	EmployeeID:    101,
	CorporationID: 3,
	ActivityID:    7,
	ProjectID:     8,
	CompanyID:     9,
	BudgetID:      500,
}

func newTestServerContext(t *testing.T, bookings *fakeBookings, resolver *fakeResolver) *server.ServerContext {
	t.Helper()
	sc := server.NewServerContext(context.Background(), server.Options{
		Config:   config.Config{Defaults: testDefaults},
		Bookings: bookings,
		Resolver: resolver,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}
