package booking_tools

import (
	"sort"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterBookingTools(t *testing.T) {
	sc := newTestServerContext(t, &fakeBookings{}, &fakeResolver{})
	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))

	require.NoError(t, RegisterBookingTools(s, sc))

	tools := s.ListTools()
	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	assert.Equal(t, []string{
		"book_hours",
		"book_hours_bulk",
		"check_booked_hours",
		"delete_hours",
		"search_budget",
		"search_internal_budgets",
		"update_hours",
	}, names)

	bookHours := tools["book_hours"].Tool
	assert.ElementsMatch(t, []string{"hours", "date", "description"}, bookHours.InputSchema.Required)
	assert.Contains(t, bookHours.InputSchema.Properties, "budgetId")
	assert.Equal(t, []string{"id"}, tools["update_hours"].Tool.InputSchema.Required)
}
