package apiutil

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/roomclerk/roomclerk/internal/scheduling"
)

// RejectionStatus maps a rejection reason to its HTTP status.
func RejectionStatus(reason scheduling.Reason) int {
	switch reason {
	case scheduling.ReasonOverlap:
		return http.StatusConflict
	case scheduling.ReasonMeetingNotFound:
		return http.StatusNotFound
	default:
		return http.StatusUnprocessableEntity
	}
}

// WriteRejection renders a rejection with the submitted values echoed back so
// the client can redisplay the form.
func WriteRejection(w http.ResponseWriter, r *http.Request, rej *scheduling.RejectionError, submitted any) {
	payload := map[string]any{
		"error": map[string]any{
			"reason":  rej.Reason,
			"message": rej.Message,
		},
	}
	if submitted != nil {
		payload["submitted"] = submitted
	}
	if err := WriteJSON(w, RejectionStatus(rej.Reason), payload); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write rejection response")
	}
}
