package scheduling

import (
	"fmt"
	"time"
)

// Date is a calendar date with no time or zone component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

const (
	isoDateLayout  = "2006-01-02"
	wireDateLayout = "02.01.2006"
)

// ParseWireDate parses the "DD.MM.YYYY" form encoding.
func ParseWireDate(raw string) (Date, error) {
	parsed, err := time.Parse(wireDateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("date must be in DD.MM.YYYY format: %w", err)
	}
	return DateOf(parsed), nil
}

// ParseISODate parses the "YYYY-MM-DD" storage encoding.
func ParseISODate(raw string) (Date, error) {
	parsed, err := time.Parse(isoDateLayout, raw)
	if err != nil {
		return Date{}, fmt.Errorf("invalid stored date %q: %w", raw, err)
	}
	return DateOf(parsed), nil
}

// DateOf extracts the calendar date from t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ISO renders the storage encoding.
func (d Date) ISO() string {
	return d.time().Format(isoDateLayout)
}

// Wire renders the "DD.MM.YYYY" form encoding.
func (d Date) Wire() string {
	return d.time().Format(wireDateLayout)
}

// Weekday returns the calendar weekday of d.
func (d Date) Weekday() time.Weekday {
	return d.time().Weekday()
}

// Compare orders dates chronologically: -1, 0 or +1.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return compareInt(d.Year, other.Year)
	case d.Month != other.Month:
		return compareInt(int(d.Month), int(other.Month))
	default:
		return compareInt(d.Day, other.Day)
	}
}

func (d Date) time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
