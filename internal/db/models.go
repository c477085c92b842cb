package db

import "time"

// AvailabilityWindow is the single-row availability configuration as stored.
// Times are "HH:MM" text; "24:00" for closes_at means open until end of day.
type AvailabilityWindow struct {
	ID        int64
	OpensAt   string
	ClosesAt  string
	Days      int64
	UpdatedAt time.Time
}

// Meeting is one booking row. Date is ISO "YYYY-MM-DD" text; starts_at and
// ends_at follow the same "HH:MM" encoding as the window.
type Meeting struct {
	ID        int64
	Date      string
	StartsAt  string
	EndsAt    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
