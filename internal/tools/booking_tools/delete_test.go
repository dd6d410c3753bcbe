package booking_tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elmarkou/dept-hour-booking-mcp/internal/auth"
	"github.com/elmarkou/dept-hour-booking-mcp/internal/dept"
)

func TestHandleDeleteHours(t *testing.T) {
	bookings := &fakeBookings{existing: existingBooking(), result: json.RawMessage(`{"deleted":true}`)}
	sc := newTestServerContext(t, bookings, &fakeResolver{})

	result, err := handleDeleteHours(sc)(context.Background(), callRequest("delete_hours", map[string]any{"id": 12345.0}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, []int64{12345}, bookings.deleted)

	want := "🗑️ Successfully deleted time entry (ID: 12345)\n\n" +
		"**Deleted Entry Details:**\n" +
		"- Date: Monday, July 7, 2025\n" +
		"- Hours: 8\n" +
		"- Description: API work\n" +
		"- Project: Portal\n" +
		"- Budget: Client X\n\n" +
		"**Deletion Result:** {\n  \"deleted\": true\n}"
	assert.Equal(t, want, resultText(t, result))
}

func TestDeleteSummary_Unknowns(t *testing.T) {
	got := deleteSummary(5, dept.Booking{ID: 5}, nil)
	assert.Equal(t, "🗑️ Successfully deleted time entry (ID: 5)\n\n"+
		"**Deleted Entry Details:**\n"+
		"- Date: Unknown\n"+
		"- Hours: Unknown\n"+
		"- Description: No description\n"+
		"- Project: Unknown\n"+
		"- Budget: Unknown\n\n"+
		"**Deletion Result:** null", got)
}

func TestHandleDeleteHours_LookupFails(t *testing.T) {
	tests := []struct {
		name      string
		bookings  *fakeBookings
		wantText  string
		wantError bool
	}{
		{
			name:      "not found",
			bookings:  &fakeBookings{},
			wantText:  "Failed to delete hours: Time booking with ID 12345 not found",
			wantError: true,
		},
		{
			name:      "api error",
			bookings:  &fakeBookings{findErr: errors.New("connection refused")},
			wantText:  "Failed to delete hours: connection refused",
			wantError: true,
		},
		{
			name:     "sign in required",
			bookings: &fakeBookings{findErr: &auth.AuthRequiredError{Message: "sign in please"}},
			wantText: "sign in please",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t, tt.bookings, &fakeResolver{})

			result, err := handleDeleteHours(sc)(context.Background(), callRequest("delete_hours", map[string]any{"id": 12345.0}))
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, result.IsError)
			assert.Equal(t, tt.wantText, resultText(t, result))
			assert.Empty(t, tt.bookings.deleted)
		})
	}
}

func TestHandleDeleteHours_MissingID(t *testing.T) {
	sc := newTestServerContext(t, &fakeBookings{}, &fakeResolver{})

	result, err := handleDeleteHours(sc)(context.Background(), callRequest("delete_hours", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "invalid parameters: id: is required", resultText(t, result))
}
