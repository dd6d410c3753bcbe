package dept

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// APIError is returned for any non-2xx response from the API.
type APIError struct {
	StatusCode int
	// Body is the parsed JSON body, nil when the response had none.
	Body json.RawMessage
}

func (e *APIError) Error() string {
	body := "null"
	if len(e.Body) > 0 {
		var buf bytes.Buffer
		if err := json.Compact(&buf, e.Body); err == nil {
			body = buf.String()
		} else {
			body = string(e.Body)
		}
	}
	return fmt.Sprintf("API error: %d - %s", e.StatusCode, body)
}

// NotFoundError is returned when a booking lookup by id finds no matching row.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Time booking with ID %d not found", e.ID)
}
