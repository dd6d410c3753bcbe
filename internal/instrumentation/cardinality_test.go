package instrumentation

import "testing"

func TestPathTemplate(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"/bookedhours", "/bookedhours"},
		{"/bookedhours/123", "/bookedhours/{id}"},
		{"/bookedhours/custom/42?from=2000-01-01&to=2100-01-01&id=9", "/bookedhours/custom/{id}"},
		{"/budgets/search?searchTerm=sick&corporationId=1", "/budgets/search"},
		{"/budgets/search/internal?searchTerm=holiday", "/budgets/search/internal"},
		{"/v2/items", "/v2/items"},
		{"", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			result := PathTemplate(tt.path)
			if result != tt.expected {
				t.Errorf("PathTemplate(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}
