package scheduling

import (
	"context"

	"github.com/roomclerk/roomclerk/internal/weekday"
)

// Window is the single authoritative availability window: the daily time span
// and the weekdays on which the room may be booked.
type Window struct {
	Opens  TimeOfDay
	Closes TimeOfDay
	Days   weekday.Set
}

// OpenEnded reports whether the window has no upper bound within the day.
func (w Window) OpenEnded() bool { return w.Closes.IsEndOfDay() }

// Meeting is one booking of the room.
type Meeting struct {
	ID     int64
	Date   Date
	Starts TimeOfDay
	Ends   TimeOfDay
}

// WindowConfig is a candidate availability configuration. Nil fields were not
// supplied by the caller.
type WindowConfig struct {
	Opens  *TimeOfDay
	Closes *TimeOfDay
	Days   weekday.Set
}

// MeetingRequest is a candidate meeting. Nil fields were not supplied.
// ExistingID is set when editing, so the meeting being edited is excluded
// from the overlap check.
type MeetingRequest struct {
	Starts     *TimeOfDay
	Ends       *TimeOfDay
	Date       *Date
	ExistingID *int64
}

// Store is the persistence contract the engine validates against. The db
// package provides the SQLite implementation.
type Store interface {
	// ActiveWindow returns the configured window, or ok=false when none has
	// been saved yet.
	ActiveWindow(ctx context.Context) (w Window, ok bool, err error)
	SaveWindow(ctx context.Context, w Window) (Window, error)

	MeetingByID(ctx context.Context, id int64) (m Meeting, ok bool, err error)
	CreateMeeting(ctx context.Context, m Meeting) (Meeting, error)
	UpdateMeeting(ctx context.Context, m Meeting) (Meeting, error)
	// DeleteMeeting reports whether a row was actually removed.
	DeleteMeeting(ctx context.Context, id int64) (bool, error)
	MeetingsOnDate(ctx context.Context, date Date) ([]Meeting, error)
	// FutureMeetings lists meetings with date >= from ordered by (date, start).
	// A negative limit means no limit.
	FutureMeetings(ctx context.Context, from Date, limit int) ([]Meeting, error)

	// InTx runs fn against a transaction-bound Store.
	InTx(ctx context.Context, fn func(Store) error) error
}
