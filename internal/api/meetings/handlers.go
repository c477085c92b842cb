// internal/api/meetings/handlers.go
package meetings

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/roomclerk/roomclerk/internal/api/apiutil"
	"github.com/roomclerk/roomclerk/internal/scheduling"
)

const (
	meetingsQueryTimeout = 5 * time.Second
	meetingIDParam       = "id"
)

var (
	engine           *scheduling.Engine
	defaultListLimit int
	engineOnce       sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(e *scheduling.Engine, listLimit int) {
	if e == nil {
		return
	}
	engineOnce.Do(func() {
		engine = e
		defaultListLimit = listLimit
	})
}

type meetingRequest struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Date      string `json:"date"`
}

type meetingResponse struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	DateISO   string `json:"dateIso"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// GET /api/v1/meetings?limit=N
func HandleListMeetings(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		logger.Error().Msg("Scheduling engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	limit, err := apiutil.ParseLimitQuery(r, defaultListLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), meetingsQueryTimeout)
	defer cancel()

	upcoming, err := e.FutureMeetings(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list future meetings")
		http.Error(w, "Failed to load meetings", http.StatusInternalServerError)
		return
	}

	meetings := make([]meetingResponse, 0, len(upcoming))
	for _, m := range upcoming {
		meetings = append(meetings, meetingResponseFrom(m))
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"meetings": meetings}); err != nil {
		logger.Error().Err(err).Msg("Failed to write meetings response")
	}
}

// POST /api/v1/meetings
func HandleCreateMeeting(w http.ResponseWriter, r *http.Request) {
	scheduleMeeting(w, r, nil)
}

// PUT /api/v1/meetings/{id}
func HandleUpdateMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := apiutil.ParseIDPathValue(r, meetingIDParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	scheduleMeeting(w, r, &id)
}

// DELETE /api/v1/meetings/{id}
func HandleDeleteMeeting(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		logger.Error().Msg("Scheduling engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	id, err := apiutil.ParseIDPathValue(r, meetingIDParam)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), meetingsQueryTimeout)
	defer cancel()

	if err := e.DeleteMeeting(ctx, id); err != nil {
		if rej, ok := scheduling.AsRejection(err); ok {
			apiutil.WriteRejection(w, r, rej, nil)
			return
		}
		logger.Error().Err(err).Int64("meeting_id", id).Msg("Failed to delete meeting")
		http.Error(w, "Failed to delete meeting", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": true}); err != nil {
		logger.Error().Err(err).Int64("meeting_id", id).Msg("Failed to write delete response")
	}
}

func scheduleMeeting(w http.ResponseWriter, r *http.Request, existingID *int64) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		logger.Error().Msg("Scheduling engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	req, err := decodeMeetingRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	starts, err := apiutil.ParseStartTimeField(req.StartTime, "start_time")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ends, err := apiutil.ParseEndTimeField(req.EndTime, "end_time")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	date, err := apiutil.ParseDateField(req.Date, "date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), meetingsQueryTimeout)
	defer cancel()

	meeting, err := e.ScheduleMeeting(ctx, scheduling.MeetingRequest{
		Starts:     starts,
		Ends:       ends,
		Date:       date,
		ExistingID: existingID,
	})
	if err != nil {
		if rej, ok := scheduling.AsRejection(err); ok {
			apiutil.WriteRejection(w, r, rej, req)
			return
		}
		logger.Error().Err(err).Msg("Failed to schedule meeting")
		http.Error(w, "Failed to save meeting", http.StatusInternalServerError)
		return
	}

	status := http.StatusCreated
	if existingID != nil {
		status = http.StatusOK
	}
	if err := apiutil.WriteJSON(w, status, meetingResponseFrom(meeting)); err != nil {
		logger.Error().Err(err).Int64("meeting_id", meeting.ID).Msg("Failed to write meeting response")
	}
}

func decodeMeetingRequest(r *http.Request) (meetingRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req meetingRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return meetingRequest{}, err
	}

	return meetingRequest{
		StartTime: apiutil.FirstNonEmpty(r.FormValue("start_time"), r.FormValue("startTime")),
		EndTime:   apiutil.FirstNonEmpty(r.FormValue("end_time"), r.FormValue("endTime")),
		Date:      r.FormValue("date"),
	}, nil
}

func meetingResponseFrom(m scheduling.Meeting) meetingResponse {
	return meetingResponse{
		ID:        m.ID,
		Date:      m.Date.Wire(),
		DateISO:   m.Date.ISO(),
		StartTime: m.Starts.String(),
		EndTime:   m.Ends.Wire(),
	}
}

func loadEngine() *scheduling.Engine {
	return engine
}
