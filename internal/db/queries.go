package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the same queries run
// inside and outside transactions.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

const getAvailabilityWindow = `
SELECT id, opens_at, closes_at, days, updated_at
FROM availability_window
WHERE id = 1
`

func (q *Queries) GetAvailabilityWindow(ctx context.Context) (AvailabilityWindow, error) {
	row := q.db.QueryRowContext(ctx, getAvailabilityWindow)
	var w AvailabilityWindow
	err := row.Scan(&w.ID, &w.OpensAt, &w.ClosesAt, &w.Days, &w.UpdatedAt)
	return w, err
}

const upsertAvailabilityWindow = `
INSERT INTO availability_window (id, opens_at, closes_at, days, updated_at)
VALUES (1, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT (id) DO UPDATE SET
    opens_at = excluded.opens_at,
    closes_at = excluded.closes_at,
    days = excluded.days,
    updated_at = CURRENT_TIMESTAMP
RETURNING id, opens_at, closes_at, days, updated_at
`

type UpsertAvailabilityWindowParams struct {
	OpensAt  string
	ClosesAt string
	Days     int64
}

func (q *Queries) UpsertAvailabilityWindow(ctx context.Context, arg UpsertAvailabilityWindowParams) (AvailabilityWindow, error) {
	row := q.db.QueryRowContext(ctx, upsertAvailabilityWindow, arg.OpensAt, arg.ClosesAt, arg.Days)
	var w AvailabilityWindow
	err := row.Scan(&w.ID, &w.OpensAt, &w.ClosesAt, &w.Days, &w.UpdatedAt)
	return w, err
}

const getMeeting = `
SELECT id, date, starts_at, ends_at, created_at, updated_at
FROM meetings
WHERE id = ?
`

func (q *Queries) GetMeeting(ctx context.Context, id int64) (Meeting, error) {
	row := q.db.QueryRowContext(ctx, getMeeting, id)
	var m Meeting
	err := row.Scan(&m.ID, &m.Date, &m.StartsAt, &m.EndsAt, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const createMeeting = `
INSERT INTO meetings (date, starts_at, ends_at)
VALUES (?, ?, ?)
RETURNING id, date, starts_at, ends_at, created_at, updated_at
`

type CreateMeetingParams struct {
	Date     string
	StartsAt string
	EndsAt   string
}

func (q *Queries) CreateMeeting(ctx context.Context, arg CreateMeetingParams) (Meeting, error) {
	row := q.db.QueryRowContext(ctx, createMeeting, arg.Date, arg.StartsAt, arg.EndsAt)
	var m Meeting
	err := row.Scan(&m.ID, &m.Date, &m.StartsAt, &m.EndsAt, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const updateMeeting = `
UPDATE meetings
SET date = ?, starts_at = ?, ends_at = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?
RETURNING id, date, starts_at, ends_at, created_at, updated_at
`

type UpdateMeetingParams struct {
	ID       int64
	Date     string
	StartsAt string
	EndsAt   string
}

func (q *Queries) UpdateMeeting(ctx context.Context, arg UpdateMeetingParams) (Meeting, error) {
	row := q.db.QueryRowContext(ctx, updateMeeting, arg.Date, arg.StartsAt, arg.EndsAt, arg.ID)
	var m Meeting
	err := row.Scan(&m.ID, &m.Date, &m.StartsAt, &m.EndsAt, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

const deleteMeeting = `
DELETE FROM meetings
WHERE id = ?
`

// DeleteMeeting removes a meeting and returns the number of rows affected.
func (q *Queries) DeleteMeeting(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMeeting, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listMeetingsByDate = `
SELECT id, date, starts_at, ends_at, created_at, updated_at
FROM meetings
WHERE date = ?
ORDER BY starts_at
`

func (q *Queries) ListMeetingsByDate(ctx context.Context, date string) ([]Meeting, error) {
	rows, err := q.db.QueryContext(ctx, listMeetingsByDate, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeetings(rows)
}

const listFutureMeetings = `
SELECT id, date, starts_at, ends_at, created_at, updated_at
FROM meetings
WHERE date >= ?
ORDER BY date, starts_at
LIMIT ?
`

type ListFutureMeetingsParams struct {
	FromDate string
	// Limit < 0 means no limit.
	Limit int64
}

func (q *Queries) ListFutureMeetings(ctx context.Context, arg ListFutureMeetingsParams) ([]Meeting, error) {
	rows, err := q.db.QueryContext(ctx, listFutureMeetings, arg.FromDate, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMeetings(rows)
}

const deleteMeetingsBefore = `
DELETE FROM meetings
WHERE date < ?
`

// DeleteMeetingsBefore removes meetings dated strictly before the given ISO
// date and returns the number of rows removed.
func (q *Queries) DeleteMeetingsBefore(ctx context.Context, date string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMeetingsBefore, date)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanMeetings(rows *sql.Rows) ([]Meeting, error) {
	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		if err := rows.Scan(&m.ID, &m.Date, &m.StartsAt, &m.EndsAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}
