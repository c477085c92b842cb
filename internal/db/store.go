package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roomclerk/roomclerk/internal/scheduling"
	"github.com/roomclerk/roomclerk/internal/weekday"
)

// Store adapts the query layer to the scheduling.Store contract, converting
// between stored encodings (text times and dates, integer day mask) and the
// scheduling domain types.
type Store struct {
	db *DB
	q  *Queries
}

var _ scheduling.Store = (*Store)(nil)

func NewStore(database *DB) *Store {
	return &Store{db: database, q: database.Queries}
}

func (s *Store) ActiveWindow(ctx context.Context) (scheduling.Window, bool, error) {
	row, err := s.q.GetAvailabilityWindow(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduling.Window{}, false, nil
	}
	if err != nil {
		return scheduling.Window{}, false, err
	}
	w, err := windowFromRow(row)
	if err != nil {
		return scheduling.Window{}, false, err
	}
	return w, true, nil
}

func (s *Store) SaveWindow(ctx context.Context, w scheduling.Window) (scheduling.Window, error) {
	row, err := s.q.UpsertAvailabilityWindow(ctx, UpsertAvailabilityWindowParams{
		OpensAt:  w.Opens.String(),
		ClosesAt: w.Closes.String(),
		Days:     w.Days.Value(),
	})
	if err != nil {
		return scheduling.Window{}, err
	}
	return windowFromRow(row)
}

func (s *Store) MeetingByID(ctx context.Context, id int64) (scheduling.Meeting, bool, error) {
	row, err := s.q.GetMeeting(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return scheduling.Meeting{}, false, nil
	}
	if err != nil {
		return scheduling.Meeting{}, false, err
	}
	m, err := meetingFromRow(row)
	if err != nil {
		return scheduling.Meeting{}, false, err
	}
	return m, true, nil
}

func (s *Store) CreateMeeting(ctx context.Context, m scheduling.Meeting) (scheduling.Meeting, error) {
	row, err := s.q.CreateMeeting(ctx, CreateMeetingParams{
		Date:     m.Date.ISO(),
		StartsAt: m.Starts.String(),
		EndsAt:   m.Ends.String(),
	})
	if err != nil {
		return scheduling.Meeting{}, err
	}
	return meetingFromRow(row)
}

func (s *Store) UpdateMeeting(ctx context.Context, m scheduling.Meeting) (scheduling.Meeting, error) {
	row, err := s.q.UpdateMeeting(ctx, UpdateMeetingParams{
		ID:       m.ID,
		Date:     m.Date.ISO(),
		StartsAt: m.Starts.String(),
		EndsAt:   m.Ends.String(),
	})
	if err != nil {
		return scheduling.Meeting{}, err
	}
	return meetingFromRow(row)
}

func (s *Store) DeleteMeeting(ctx context.Context, id int64) (bool, error) {
	affected, err := s.q.DeleteMeeting(ctx, id)
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *Store) MeetingsOnDate(ctx context.Context, date scheduling.Date) ([]scheduling.Meeting, error) {
	rows, err := s.q.ListMeetingsByDate(ctx, date.ISO())
	if err != nil {
		return nil, err
	}
	return meetingsFromRows(rows)
}

func (s *Store) FutureMeetings(ctx context.Context, from scheduling.Date, limit int) ([]scheduling.Meeting, error) {
	rows, err := s.q.ListFutureMeetings(ctx, ListFutureMeetingsParams{
		FromDate: from.ISO(),
		Limit:    int64(limit),
	})
	if err != nil {
		return nil, err
	}
	return meetingsFromRows(rows)
}

func (s *Store) InTx(ctx context.Context, fn func(scheduling.Store) error) error {
	return s.db.RunInTx(ctx, func(txDB *DB) error {
		return fn(&Store{db: txDB, q: txDB.Queries})
	})
}

func windowFromRow(row AvailabilityWindow) (scheduling.Window, error) {
	opens, err := scheduling.ParseStoredTime(row.OpensAt)
	if err != nil {
		return scheduling.Window{}, fmt.Errorf("availability window opens_at: %w", err)
	}
	closes, err := scheduling.ParseStoredTime(row.ClosesAt)
	if err != nil {
		return scheduling.Window{}, fmt.Errorf("availability window closes_at: %w", err)
	}
	days, err := weekday.FromValue(row.Days)
	if err != nil {
		return scheduling.Window{}, fmt.Errorf("availability window days: %w", err)
	}
	return scheduling.Window{Opens: opens, Closes: closes, Days: days}, nil
}

func meetingFromRow(row Meeting) (scheduling.Meeting, error) {
	date, err := scheduling.ParseISODate(row.Date)
	if err != nil {
		return scheduling.Meeting{}, fmt.Errorf("meeting %d date: %w", row.ID, err)
	}
	starts, err := scheduling.ParseStoredTime(row.StartsAt)
	if err != nil {
		return scheduling.Meeting{}, fmt.Errorf("meeting %d starts_at: %w", row.ID, err)
	}
	ends, err := scheduling.ParseStoredTime(row.EndsAt)
	if err != nil {
		return scheduling.Meeting{}, fmt.Errorf("meeting %d ends_at: %w", row.ID, err)
	}
	return scheduling.Meeting{ID: row.ID, Date: date, Starts: starts, Ends: ends}, nil
}

func meetingsFromRows(rows []Meeting) ([]scheduling.Meeting, error) {
	meetings := make([]scheduling.Meeting, 0, len(rows))
	for _, row := range rows {
		m, err := meetingFromRow(row)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, nil
}
