package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValidationError reports an argument that does not match the tool schema.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Invalid returns a ValidationError for field.
func Invalid(field, format string, a ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, a...)}
}

// Args gives typed access to the arguments of a tool call. Numbers may be
// sent as JSON numbers or numeric strings; agents do both.
type Args map[string]any

// present reports whether key was sent with a non-null value.
func (a Args) present(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// String returns the trimmed string argument, "" when absent.
func (a Args) String(key string) (string, error) {
	if !a.present(key) {
		return "", nil
	}
	s, ok := a[key].(string)
	if !ok {
		return "", Invalid(key, "expected a string")
	}
	return strings.TrimSpace(s), nil
}

// RequiredString returns a non-empty string argument.
func (a Args) RequiredString(key string) (string, error) {
	s, err := a.String(key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", Invalid(key, "is required")
	}
	return s, nil
}

// Float returns a numeric argument and whether it was sent.
func (a Args) Float(key string) (float64, bool, error) {
	if !a.present(key) {
		return 0, false, nil
	}
	switch v := a[key].(type) {
	case float64:
		return v, true, nil
	case int:
		return float64(v), true, nil
	case int64:
		return float64(v), true, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false, Invalid(key, "expected a number, got %q", v)
		}
		return f, true, nil
	default:
		return 0, false, Invalid(key, "expected a number")
	}
}

// RequiredFloat returns a numeric argument that must be present.
func (a Args) RequiredFloat(key string) (float64, error) {
	f, ok, err := a.Float(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, Invalid(key, "is required")
	}
	return f, nil
}

// Int returns an integer argument and whether it was sent.
func (a Args) Int(key string) (int64, bool, error) {
	f, ok, err := a.Float(key)
	if err != nil || !ok {
		return 0, ok, err
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false, Invalid(key, "expected an integer")
	}
	return int64(f), true, nil
}

// OptionalInt returns an integer argument, 0 when absent.
func (a Args) OptionalInt(key string) (int64, error) {
	n, _, err := a.Int(key)
	return n, err
}

// RequiredInt returns an integer argument that must be present.
func (a Args) RequiredInt(key string) (int64, error) {
	n, ok, err := a.Int(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, Invalid(key, "is required")
	}
	return n, nil
}

// Bool returns a boolean argument and whether it was sent. The strings
// "true" and "false" are accepted.
func (a Args) Bool(key string) (bool, bool, error) {
	if !a.present(key) {
		return false, false, nil
	}
	switch v := a[key].(type) {
	case bool:
		return v, true, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false, Invalid(key, "expected a boolean, got %q", v)
		}
		return b, true, nil
	default:
		return false, false, Invalid(key, "expected a boolean")
	}
}

// Object returns a nested object argument, nil when absent.
func (a Args) Object(key string) (Args, error) {
	if !a.present(key) {
		return nil, nil
	}
	m, ok := a[key].(map[string]any)
	if !ok {
		return nil, Invalid(key, "expected an object")
	}
	return Args(m), nil
}
