package scheduling_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/roomclerk/roomclerk/internal/scheduling"
	"github.com/roomclerk/roomclerk/internal/weekday"
)

// memStore is an in-memory scheduling.Store for engine tests.
type memStore struct {
	window   *scheduling.Window
	meetings map[int64]scheduling.Meeting
	nextID   int64
}

func newMemStore() *memStore {
	return &memStore{meetings: make(map[int64]scheduling.Meeting), nextID: 1}
}

func (s *memStore) ActiveWindow(ctx context.Context) (scheduling.Window, bool, error) {
	if s.window == nil {
		return scheduling.Window{}, false, nil
	}
	return *s.window, true, nil
}

func (s *memStore) SaveWindow(ctx context.Context, w scheduling.Window) (scheduling.Window, error) {
	s.window = &w
	return w, nil
}

func (s *memStore) MeetingByID(ctx context.Context, id int64) (scheduling.Meeting, bool, error) {
	m, ok := s.meetings[id]
	return m, ok, nil
}

func (s *memStore) CreateMeeting(ctx context.Context, m scheduling.Meeting) (scheduling.Meeting, error) {
	m.ID = s.nextID
	s.nextID++
	s.meetings[m.ID] = m
	return m, nil
}

func (s *memStore) UpdateMeeting(ctx context.Context, m scheduling.Meeting) (scheduling.Meeting, error) {
	s.meetings[m.ID] = m
	return m, nil
}

func (s *memStore) DeleteMeeting(ctx context.Context, id int64) (bool, error) {
	if _, ok := s.meetings[id]; !ok {
		return false, nil
	}
	delete(s.meetings, id)
	return true, nil
}

func (s *memStore) MeetingsOnDate(ctx context.Context, date scheduling.Date) ([]scheduling.Meeting, error) {
	var out []scheduling.Meeting
	for _, m := range s.meetings {
		if m.Date.Compare(date) == 0 {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) FutureMeetings(ctx context.Context, from scheduling.Date, limit int) ([]scheduling.Meeting, error) {
	var out []scheduling.Meeting
	for _, m := range s.meetings {
		if m.Date.Compare(from) >= 0 {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Date.Compare(out[j].Date); c != 0 {
			return c < 0
		}
		return out[i].Starts < out[j].Starts
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memStore) InTx(ctx context.Context, fn func(scheduling.Store) error) error {
	return fn(s)
}

func timeOfDay(t *testing.T, raw string) scheduling.TimeOfDay {
	t.Helper()
	parsed, err := scheduling.ParseTimeOfDay(raw)
	if err != nil {
		t.Fatalf("parse time %q: %v", raw, err)
	}
	return parsed
}

func endTime(t *testing.T, raw string) scheduling.TimeOfDay {
	t.Helper()
	parsed, err := scheduling.ParseEndTime(raw)
	if err != nil {
		t.Fatalf("parse end time %q: %v", raw, err)
	}
	return parsed
}

func wireDate(t *testing.T, raw string) scheduling.Date {
	t.Helper()
	parsed, err := scheduling.ParseWireDate(raw)
	if err != nil {
		t.Fatalf("parse date %q: %v", raw, err)
	}
	return parsed
}

// newTestEngine returns an engine over a seeded 07:00-17:00 Mon-Fri window
// with "today" pinned to Monday 2024-01-01.
func newTestEngine(t *testing.T) (*scheduling.Engine, *memStore) {
	t.Helper()
	store := newMemStore()
	store.window = &scheduling.Window{
		Opens:  timeOfDay(t, "07:00"),
		Closes: timeOfDay(t, "17:00"),
		Days:   weekday.Weekdays,
	}
	engine := scheduling.NewEngine(store).WithClock(func() time.Time {
		return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	})
	return engine, store
}

func requireReason(t *testing.T, err error, want scheduling.Reason) {
	t.Helper()
	rej, ok := scheduling.AsRejection(err)
	if !ok {
		t.Fatalf("expected rejection %s, got %v", want, err)
	}
	if rej.Reason != want {
		t.Fatalf("got reason %s (%q), want %s", rej.Reason, rej.Message, want)
	}
}

func meetingRequest(t *testing.T, date, start, end string) scheduling.MeetingRequest {
	t.Helper()
	d := wireDate(t, date)
	s := timeOfDay(t, start)
	e := endTime(t, end)
	return scheduling.MeetingRequest{Starts: &s, Ends: &e, Date: &d}
}

func TestScheduleMeeting_MissingFields(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	req := meetingRequest(t, "01.01.2024", "09:00", "10:00")

	missingStart := req
	missingStart.Starts = nil
	_, err := engine.ScheduleMeeting(ctx, missingStart)
	requireReason(t, err, scheduling.ReasonMissingStartTime)

	missingEnd := req
	missingEnd.Ends = nil
	_, err = engine.ScheduleMeeting(ctx, missingEnd)
	requireReason(t, err, scheduling.ReasonMissingEndTime)

	missingDate := req
	missingDate.Date = nil
	_, err = engine.ScheduleMeeting(ctx, missingDate)
	requireReason(t, err, scheduling.ReasonMissingDate)
}

func TestScheduleMeeting_StartNotBeforeEnd(t *testing.T) {
	engine, _ := newTestEngine(t)

	_, err := engine.ScheduleMeeting(context.Background(), meetingRequest(t, "01.01.2024", "10:00", "09:00"))
	requireReason(t, err, scheduling.ReasonStartNotBeforeEnd)
}

func TestScheduleMeeting_WindowContainment(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	// Monday 09:00-10:00 fits the 07:00-17:00 window.
	if _, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "09:00", "10:00")); err != nil {
		t.Fatalf("in-window meeting rejected: %v", err)
	}

	_, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "06:00", "07:30"))
	requireReason(t, err, scheduling.ReasonOutsideWindow)

	_, err = engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "16:30", "17:30"))
	requireReason(t, err, scheduling.ReasonOutsideWindow)
}

func TestScheduleMeeting_DayNotAvailable(t *testing.T) {
	engine, _ := newTestEngine(t)

	// 06.01.2024 is a Saturday; the window covers Mon-Fri only.
	_, err := engine.ScheduleMeeting(context.Background(), meetingRequest(t, "06.01.2024", "09:00", "10:00"))
	requireReason(t, err, scheduling.ReasonDayNotAvailable)
}

func TestScheduleMeeting_Overlap(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "10:00", "11:00")); err != nil {
		t.Fatalf("seed meeting: %v", err)
	}

	_, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "10:30", "11:30"))
	requireReason(t, err, scheduling.ReasonOverlap)

	// Fully containing span also conflicts.
	_, err = engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "09:30", "11:30"))
	requireReason(t, err, scheduling.ReasonOverlap)

	// Touching endpoints are not overlap.
	if _, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "11:00", "12:00")); err != nil {
		t.Fatalf("touching meeting rejected: %v", err)
	}

	// Same span on another active day does not conflict.
	if _, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "02.01.2024", "10:00", "11:00")); err != nil {
		t.Fatalf("other-day meeting rejected: %v", err)
	}
}

func TestScheduleMeeting_EditExcludesSelf(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	created, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "10:00", "11:00"))
	if err != nil {
		t.Fatalf("seed meeting: %v", err)
	}

	// Shifting the meeting over its own old span must not self-conflict.
	edit := meetingRequest(t, "01.01.2024", "10:30", "11:30")
	edit.ExistingID = &created.ID
	updated, err := engine.ScheduleMeeting(ctx, edit)
	if err != nil {
		t.Fatalf("edit rejected: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("edit changed identity: %d -> %d", created.ID, updated.ID)
	}
	if updated.Starts != timeOfDay(t, "10:30") {
		t.Fatalf("edit did not apply: starts %s", updated.Starts)
	}
}

func TestScheduleMeeting_EditUnknownID(t *testing.T) {
	engine, _ := newTestEngine(t)

	id := int64(99)
	req := meetingRequest(t, "01.01.2024", "09:00", "10:00")
	req.ExistingID = &id
	_, err := engine.ScheduleMeeting(context.Background(), req)
	requireReason(t, err, scheduling.ReasonMeetingNotFound)
}

func TestScheduleMeeting_OpenEndedWindow(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	store.window.Closes = scheduling.EndOfDay

	// 23:00 until "00:00" (end of day) is accepted under an open-ended window.
	if _, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "23:00", "00:00")); err != nil {
		t.Fatalf("meeting until end of day rejected: %v", err)
	}
}

func TestDeleteMeeting(t *testing.T) {
	engine, store := newTestEngine(t)
	ctx := context.Background()

	created, err := engine.ScheduleMeeting(ctx, meetingRequest(t, "01.01.2024", "09:00", "10:00"))
	if err != nil {
		t.Fatalf("seed meeting: %v", err)
	}

	err = engine.DeleteMeeting(ctx, created.ID+1)
	requireReason(t, err, scheduling.ReasonMeetingNotFound)
	if len(store.meetings) != 1 {
		t.Fatalf("failed delete mutated store: %d meetings", len(store.meetings))
	}

	if err := engine.DeleteMeeting(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(store.meetings) != 0 {
		t.Fatalf("meeting not removed")
	}
}

func TestFutureMeetings_LimitAndOrder(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	// Later dates first, to prove ordering comes from the query, not insert order.
	for _, m := range []struct{ date, start, end string }{
		{"03.01.2024", "09:00", "10:00"},
		{"02.01.2024", "14:00", "15:00"},
		{"02.01.2024", "09:00", "10:00"},
	} {
		if _, err := engine.ScheduleMeeting(ctx, meetingRequest(t, m.date, m.start, m.end)); err != nil {
			t.Fatalf("seed %s %s: %v", m.date, m.start, err)
		}
	}

	got, err := engine.FutureMeetings(ctx, 2)
	if err != nil {
		t.Fatalf("FutureMeetings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d meetings, want exactly 2", len(got))
	}
	if got[0].Date.Wire() != "02.01.2024" || got[0].Starts != timeOfDay(t, "09:00") {
		t.Fatalf("wrong first meeting: %s %s", got[0].Date.Wire(), got[0].Starts)
	}
	if got[1].Date.Wire() != "02.01.2024" || got[1].Starts != timeOfDay(t, "14:00") {
		t.Fatalf("wrong second meeting: %s %s", got[1].Date.Wire(), got[1].Starts)
	}
}

func TestSaveWindow_Validation(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	opens := timeOfDay(t, "08:00")
	closes := timeOfDay(t, "18:00")

	_, err := engine.SaveWindow(ctx, scheduling.WindowConfig{Closes: &closes, Days: weekday.Weekdays})
	requireReason(t, err, scheduling.ReasonMissingStartTime)

	_, err = engine.SaveWindow(ctx, scheduling.WindowConfig{Opens: &opens, Days: weekday.Weekdays})
	requireReason(t, err, scheduling.ReasonMissingEndTime)

	_, err = engine.SaveWindow(ctx, scheduling.WindowConfig{Opens: &closes, Closes: &opens, Days: weekday.Weekdays})
	requireReason(t, err, scheduling.ReasonStartNotBeforeEnd)

	_, err = engine.SaveWindow(ctx, scheduling.WindowConfig{Opens: &opens, Closes: &closes})
	requireReason(t, err, scheduling.ReasonNoDaySelected)
}

func TestSaveWindow_EndOfDay(t *testing.T) {
	engine, _ := newTestEngine(t)

	opens := timeOfDay(t, "23:00")
	closes := endTime(t, "00:00")
	w, err := engine.SaveWindow(context.Background(), scheduling.WindowConfig{
		Opens: &opens, Closes: &closes, Days: weekday.Every,
	})
	if err != nil {
		t.Fatalf("SaveWindow: %v", err)
	}
	if !w.OpenEnded() {
		t.Fatal("window should be open ended")
	}
}

func TestSaveWindow_Idempotent(t *testing.T) {
	engine, _ := newTestEngine(t)
	ctx := context.Background()

	opens := timeOfDay(t, "08:00")
	closes := timeOfDay(t, "18:00")
	cfg := scheduling.WindowConfig{Opens: &opens, Closes: &closes, Days: weekday.Weekdays}

	first, err := engine.SaveWindow(ctx, cfg)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := engine.SaveWindow(ctx, cfg)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first != second {
		t.Fatalf("repeated save changed state: %+v vs %+v", first, second)
	}
}

func TestEnsureWindow(t *testing.T) {
	store := newMemStore()
	engine := scheduling.NewEngine(store)
	ctx := context.Background()

	def := scheduling.Window{
		Opens:  timeOfDay(t, "07:00"),
		Closes: timeOfDay(t, "17:00"),
		Days:   weekday.Weekdays,
	}
	w, err := engine.EnsureWindow(ctx, def)
	if err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	if w != def {
		t.Fatalf("got %+v, want default", w)
	}

	// A saved window is not overwritten by later Ensure calls.
	saved := def
	saved.Opens = timeOfDay(t, "09:00")
	if _, err := store.SaveWindow(ctx, saved); err != nil {
		t.Fatalf("SaveWindow: %v", err)
	}
	w, err = engine.EnsureWindow(ctx, def)
	if err != nil {
		t.Fatalf("EnsureWindow: %v", err)
	}
	if w != saved {
		t.Fatalf("EnsureWindow overwrote saved window: %+v", w)
	}
}
