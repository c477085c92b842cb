package scheduling

import "errors"

// Reason classifies why a candidate was rejected. Every reason is
// user-correctable; none is fatal.
type Reason string

const (
	ReasonMissingStartTime  Reason = "missing_start_time"
	ReasonMissingEndTime    Reason = "missing_end_time"
	ReasonMissingDate       Reason = "missing_date"
	ReasonStartNotBeforeEnd Reason = "start_not_before_end"
	ReasonNoDaySelected     Reason = "no_day_selected"
	ReasonOutsideWindow     Reason = "outside_window"
	ReasonDayNotAvailable   Reason = "day_not_available"
	ReasonOverlap           Reason = "overlaps_existing_meeting"
	ReasonMeetingNotFound   Reason = "meeting_not_found"
)

// RejectionError reports the first failed validation check along with the
// message shown to the user. The engine returns it and does nothing else:
// no logging, no retries.
type RejectionError struct {
	Reason  Reason
	Message string
}

func (e *RejectionError) Error() string { return e.Message }

func reject(reason Reason, message string) error {
	return &RejectionError{Reason: reason, Message: message}
}

// AsRejection unwraps err into a RejectionError, if it is one.
func AsRejection(err error) (*RejectionError, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}
