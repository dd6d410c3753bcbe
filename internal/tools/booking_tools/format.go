package booking_tools

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// prettyJSON indents a raw API response. An empty response prints as null.
func prettyJSON(raw json.RawMessage) string {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// formatHours prints a number without trailing zeros: 8, 7.5, 0.25.
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

// formatID prints an identifier, or fallback when it is zero.
func formatID(id int64, fallback string) string {
	if id == 0 {
		return fallback
	}
	return strconv.FormatInt(id, 10)
}

// orDefault returns s, or fallback when s is empty.
func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// firstNonZero returns the first non-zero value.
func firstNonZero(values ...int64) int64 {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
