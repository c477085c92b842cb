package scheduling

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes after midnight.
//
// The upper bound EndOfDay (24:00) is a valid end time: it marks a span or
// window that runs until the end of the day. User-facing forms submit this as
// "00:00"; ParseEndTime performs that normalization so the rest of the code
// never sees a magic midnight value.
type TimeOfDay int

// EndOfDay is one minute past 23:59, the exclusive upper bound of a day.
const EndOfDay TimeOfDay = 24 * 60

const clockLayout = "15:04"

// ParseTimeOfDay parses "HH:MM" into a TimeOfDay in [00:00, 23:59].
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	parsed, err := time.Parse(clockLayout, raw)
	if err != nil {
		return 0, fmt.Errorf("time must be in HH:MM format: %w", err)
	}
	return TimeOfDay(parsed.Hour()*60 + parsed.Minute()), nil
}

// ParseEndTime parses an end-of-span time. "00:00" means end of day.
func ParseEndTime(raw string) (TimeOfDay, error) {
	t, err := ParseTimeOfDay(raw)
	if err != nil {
		return 0, err
	}
	if t == 0 {
		return EndOfDay, nil
	}
	return t, nil
}

// ParseStoredTime parses the storage encoding, which uses "24:00" for EndOfDay.
func ParseStoredTime(raw string) (TimeOfDay, error) {
	if raw == "24:00" {
		return EndOfDay, nil
	}
	return ParseTimeOfDay(raw)
}

// Hour returns the hour component (24 for EndOfDay).
func (t TimeOfDay) Hour() int { return int(t) / 60 }

// Minute returns the minute component.
func (t TimeOfDay) Minute() int { return int(t) % 60 }

// IsEndOfDay reports whether t is the end-of-day bound.
func (t TimeOfDay) IsEndOfDay() bool { return t == EndOfDay }

// String renders the storage encoding ("24:00" for EndOfDay).
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Wire renders the form encoding, where end of day round-trips as "00:00".
func (t TimeOfDay) Wire() string {
	if t.IsEndOfDay() {
		return "00:00"
	}
	return t.String()
}
