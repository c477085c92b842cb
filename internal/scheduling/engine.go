// Package scheduling validates candidate meetings against the room's
// availability window and against other meetings on the same date.
package scheduling

import (
	"context"
	"fmt"
	"time"
)

// Engine performs all booking validation. It reads and writes through a Store
// and surfaces every user-correctable failure as a *RejectionError.
type Engine struct {
	store Store
	now   func() time.Time
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// WithClock overrides the time source. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// EnsureWindow seeds the availability window with def if none has been saved
// yet. Called once at startup so reads never create state as a side effect.
func (e *Engine) EnsureWindow(ctx context.Context, def Window) (Window, error) {
	w, ok, err := e.store.ActiveWindow(ctx)
	if err != nil {
		return Window{}, fmt.Errorf("loading availability window: %w", err)
	}
	if ok {
		return w, nil
	}
	w, err = e.store.SaveWindow(ctx, def)
	if err != nil {
		return Window{}, fmt.Errorf("seeding default availability window: %w", err)
	}
	return w, nil
}

// ActiveWindow returns the configured window. The window is seeded at startup,
// so absence here is a deployment error, not a user error.
func (e *Engine) ActiveWindow(ctx context.Context) (Window, error) {
	w, ok, err := e.store.ActiveWindow(ctx)
	if err != nil {
		return Window{}, fmt.Errorf("loading availability window: %w", err)
	}
	if !ok {
		return Window{}, fmt.Errorf("availability window not initialized")
	}
	return w, nil
}

// SaveWindow validates and persists a new availability configuration,
// overwriting the single active window.
func (e *Engine) SaveWindow(ctx context.Context, cfg WindowConfig) (Window, error) {
	if cfg.Opens == nil {
		return Window{}, reject(ReasonMissingStartTime, `You must set "From" time.`)
	}
	if cfg.Closes == nil {
		return Window{}, reject(ReasonMissingEndTime, `You must set "To" time.`)
	}
	if *cfg.Opens >= *cfg.Closes {
		return Window{}, reject(ReasonStartNotBeforeEnd, `"Start" time has to be earlier than "End" time`)
	}
	if cfg.Days.IsEmpty() {
		return Window{}, reject(ReasonNoDaySelected, "You must select at least 1 day.")
	}

	w, err := e.store.SaveWindow(ctx, Window{Opens: *cfg.Opens, Closes: *cfg.Closes, Days: cfg.Days})
	if err != nil {
		return Window{}, fmt.Errorf("saving availability window: %w", err)
	}
	return w, nil
}

// ScheduleMeeting validates req and creates the meeting, or updates it in
// place when req.ExistingID is set. Checks run in a fixed order so the first
// applicable rejection is deterministic. The conflict check and the write run
// in one transaction so two racing bookings cannot both pass it.
func (e *Engine) ScheduleMeeting(ctx context.Context, req MeetingRequest) (Meeting, error) {
	if req.Starts == nil {
		return Meeting{}, reject(ReasonMissingStartTime, `You must set "From" time.`)
	}
	if req.Ends == nil {
		return Meeting{}, reject(ReasonMissingEndTime, `You must set "To" time.`)
	}
	if req.Date == nil {
		return Meeting{}, reject(ReasonMissingDate, "You must set Date of the meeting")
	}
	if *req.Starts >= *req.Ends {
		return Meeting{}, reject(ReasonStartNotBeforeEnd, `"Start" time has to be earlier than "End" time`)
	}

	window, err := e.ActiveWindow(ctx)
	if err != nil {
		return Meeting{}, err
	}
	if *req.Starts < window.Opens || *req.Ends > window.Closes {
		return Meeting{}, reject(ReasonOutsideWindow, "Scheduled meeting is outside permitted limits")
	}
	if !window.Days.Contains(req.Date.Weekday()) {
		return Meeting{}, reject(ReasonDayNotAvailable, "The meeting room is not available on that day.")
	}

	var saved Meeting
	err = e.store.InTx(ctx, func(tx Store) error {
		candidate := Meeting{Date: *req.Date, Starts: *req.Starts, Ends: *req.Ends}

		if req.ExistingID != nil {
			existing, ok, err := tx.MeetingByID(ctx, *req.ExistingID)
			if err != nil {
				return fmt.Errorf("loading meeting %d: %w", *req.ExistingID, err)
			}
			if !ok {
				return reject(ReasonMeetingNotFound, "Meeting does not exist.")
			}
			candidate.ID = existing.ID
		}

		sameDay, err := tx.MeetingsOnDate(ctx, candidate.Date)
		if err != nil {
			return fmt.Errorf("loading meetings on %s: %w", candidate.Date.ISO(), err)
		}
		for _, other := range sameDay {
			if req.ExistingID != nil && other.ID == *req.ExistingID {
				continue
			}
			if overlaps(candidate, other) {
				return reject(ReasonOverlap, "Scheduled meeting cannot overlap.")
			}
		}

		if req.ExistingID != nil {
			saved, err = tx.UpdateMeeting(ctx, candidate)
		} else {
			saved, err = tx.CreateMeeting(ctx, candidate)
		}
		if err != nil {
			return fmt.Errorf("saving meeting: %w", err)
		}
		return nil
	})
	if err != nil {
		return Meeting{}, err
	}
	return saved, nil
}

// DeleteMeeting removes the meeting with the given id.
func (e *Engine) DeleteMeeting(ctx context.Context, id int64) error {
	deleted, err := e.store.DeleteMeeting(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting meeting %d: %w", id, err)
	}
	if !deleted {
		return reject(ReasonMeetingNotFound, "Meeting does not exist.")
	}
	return nil
}

// FutureMeetings lists meetings from today onward, ordered by (date, start).
// When limit is non-negative, exactly limit entries are returned at most.
func (e *Engine) FutureMeetings(ctx context.Context, limit int) ([]Meeting, error) {
	today := DateOf(e.now())
	meetings, err := e.store.FutureMeetings(ctx, today, limit)
	if err != nil {
		return nil, fmt.Errorf("loading future meetings: %w", err)
	}
	return meetings, nil
}

// overlaps implements the strict interior test: spans conflict only when a
// boundary of one lies strictly inside the other. Touching endpoints do not
// conflict.
func overlaps(a, b Meeting) bool {
	return (b.Starts < a.Starts && a.Starts < b.Ends) ||
		(b.Starts < a.Ends && a.Ends < b.Ends) ||
		(a.Starts < b.Starts && b.Starts < a.Ends) ||
		(a.Starts < b.Ends && b.Ends < a.Ends)
}
