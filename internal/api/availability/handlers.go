// internal/api/availability/handlers.go
package availability

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/roomclerk/roomclerk/internal/api/apiutil"
	"github.com/roomclerk/roomclerk/internal/scheduling"
	"github.com/roomclerk/roomclerk/internal/weekday"
)

const availabilityQueryTimeout = 5 * time.Second

var (
	engine     *scheduling.Engine
	engineOnce sync.Once
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(e *scheduling.Engine) {
	if e == nil {
		return
	}
	engineOnce.Do(func() {
		engine = e
	})
}

type saveRequest struct {
	OpensAt  string   `json:"opensAt"`
	ClosesAt string   `json:"closesAt"`
	Days     []string `json:"days"`
}

type windowResponse struct {
	OpensAt          string   `json:"opensAt"`
	ClosesAt         string   `json:"closesAt"`
	OpenEnded        bool     `json:"openEnded"`
	Days             int64    `json:"days"`
	DayNames         []string `json:"dayNames"`
	ScheduledDays    string   `json:"scheduledDays"`
	ActiveDayIndices []int    `json:"activeDayIndices"`
	Abbreviation     string   `json:"abbreviation"`
}

// GET /api/v1/availability
func HandleGetAvailability(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		logger.Error().Msg("Scheduling engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	window, err := e.ActiveWindow(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load availability window")
		http.Error(w, "Failed to load availability", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, windowResponseFrom(window)); err != nil {
		logger.Error().Err(err).Msg("Failed to write availability response")
	}
}

// PUT /api/v1/availability
func HandleSaveAvailability(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	e := loadEngine()
	if e == nil {
		logger.Error().Msg("Scheduling engine not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	req, err := decodeSaveRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opens, err := apiutil.ParseStartTimeField(req.OpensAt, "start_time")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	closes, err := apiutil.ParseEndTimeField(req.ClosesAt, "end_time")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	days, err := weekday.FromNames(req.Days)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), availabilityQueryTimeout)
	defer cancel()

	window, err := e.SaveWindow(ctx, scheduling.WindowConfig{Opens: opens, Closes: closes, Days: days})
	if err != nil {
		if rej, ok := scheduling.AsRejection(err); ok {
			apiutil.WriteRejection(w, r, rej, req)
			return
		}
		logger.Error().Err(err).Msg("Failed to save availability window")
		http.Error(w, "Failed to save availability", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, windowResponseFrom(window)); err != nil {
		logger.Error().Err(err).Msg("Failed to write availability response")
	}
}

func decodeSaveRequest(r *http.Request) (saveRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req saveRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return saveRequest{}, err
	}

	req := saveRequest{
		OpensAt:  apiutil.FirstNonEmpty(r.FormValue("start_time"), r.FormValue("opensAt")),
		ClosesAt: apiutil.FirstNonEmpty(r.FormValue("end_time"), r.FormValue("closesAt")),
	}
	// Day checkboxes come in as individual fields named after the weekday.
	for _, name := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		if r.FormValue(name) != "" {
			req.Days = append(req.Days, name)
		}
	}
	return req, nil
}

func windowResponseFrom(window scheduling.Window) windowResponse {
	return windowResponse{
		OpensAt:          window.Opens.String(),
		ClosesAt:         window.Closes.Wire(),
		OpenEnded:        window.OpenEnded(),
		Days:             window.Days.Value(),
		DayNames:         window.Days.Names(false),
		ScheduledDays:    window.Days.String(),
		ActiveDayIndices: window.Days.Indices(),
		Abbreviation:     window.Days.Abbreviation(),
	}
}

func loadEngine() *scheduling.Engine {
	return engine
}
