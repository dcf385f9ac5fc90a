package scheduling

import "fmt"

// SchedulingError carries a stable code alongside the message so handlers can
// map failures without string matching.
type SchedulingError struct {
	Code    string
	Message string
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Sentinel failures of the scheduling state machine. Wrap with %w so callers
// can test with errors.Is.
var (
	// ErrSlotUnavailable: lost a race for the slot. The caller should re-list
	// availability and retry only with user confirmation.
	ErrSlotUnavailable = &SchedulingError{Code: "slotUnavailable", Message: "slot is already held or booked"}
	// ErrPersistenceFailed: transient store fault during commit. The hold has
	// been released; the whole propose/commit sequence may be retried.
	ErrPersistenceFailed = &SchedulingError{Code: "persistenceFailed", Message: "failed to persist appointment"}
	// ErrInvalidTransition: state-machine misuse, e.g. cancelling a completed
	// appointment. Not retryable.
	ErrInvalidTransition = &SchedulingError{Code: "invalidTransition", Message: "appointment is not in a state that allows this operation"}
	// ErrAppointmentNotFound: the id does not exist.
	ErrAppointmentNotFound = &SchedulingError{Code: "appointmentNotFound", Message: "appointment not found"}
	// ErrInvalidRequest: malformed propose input (empty ids, bad date).
	ErrInvalidRequest = &SchedulingError{Code: "invalidRequest", Message: "malformed scheduling request"}
)
