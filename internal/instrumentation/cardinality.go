package instrumentation

import "strings"

// Cardinality management helpers for metrics.
//
// Dept API paths carry booking and employee ids as well as free-text search
// terms. Recording them verbatim as labels would create one series per
// booking, so every path goes through PathTemplate first.

// PathTemplate reduces an API path to a low-cardinality template: the query
// string is dropped and purely numeric segments are replaced with "{id}".
//
// Example:
//
//	PathTemplate("/bookedhours/123")                         // "/bookedhours/{id}"
//	PathTemplate("/bookedhours/custom/42?from=2025-07-01")   // "/bookedhours/custom/{id}"
//	PathTemplate("/budgets/search?searchTerm=sick")          // "/budgets/search"
func PathTemplate(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if isNumeric(seg) {
			segments[i] = "{id}"
		}
	}
	return strings.Join(segments, "/")
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
