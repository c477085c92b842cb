package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/roomclerk/roomclerk/internal/scheduling"
)

// ParseStartTimeField parses an optional "HH:MM" start time. Empty input
// yields nil so the engine reports the missing field.
func ParseStartTimeField(raw string, field string) (*scheduling.TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := scheduling.ParseTimeOfDay(raw)
	if err != nil {
		return nil, FieldError{Field: field, Reason: "must be in HH:MM format"}
	}
	return &t, nil
}

// ParseEndTimeField parses an optional "HH:MM" end time, normalizing the
// "00:00" form value to end of day.
func ParseEndTimeField(raw string, field string) (*scheduling.TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := scheduling.ParseEndTime(raw)
	if err != nil {
		return nil, FieldError{Field: field, Reason: "must be in HH:MM format"}
	}
	return &t, nil
}

// ParseDateField parses an optional "DD.MM.YYYY" date. Empty input yields nil.
func ParseDateField(raw string, field string) (*scheduling.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	d, err := scheduling.ParseWireDate(raw)
	if err != nil {
		return nil, FieldError{Field: field, Reason: "must be in DD.MM.YYYY format"}
	}
	return &d, nil
}

// ParseLimitQuery reads an optional non-negative ?limit= value, returning
// fallback when absent.
func ParseLimitQuery(r *http.Request, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, FieldError{Field: "limit", Reason: "must be 0 or greater"}
	}
	return value, nil
}

// ParseIDPathValue reads a positive integer path parameter.
func ParseIDPathValue(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	if raw == "" {
		return 0, fmt.Errorf("invalid %s", name)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, FieldError{Field: name, Reason: "must be a positive integer"}
	}
	return id, nil
}
