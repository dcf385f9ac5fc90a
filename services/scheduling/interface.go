package scheduling

import (
	"context"

	"therapia/models"
)

// AvailabilityManager owns slot state. Hold is the sole mutual-exclusion
// point in the system: an atomic free-to-held check-and-set, never a separate
// read then write. Holds lapse back to free after a bounded TTL so abandoned
// booking flows cannot leak slots.
type AvailabilityManager interface {
	// ListFreeSlots expands the therapist's weekly availability template over
	// the next `days` days and returns only slots currently free.
	ListFreeSlots(ctx context.Context, profile models.TherapistProfile, days int) ([]models.Slot, error)
	// Hold atomically transitions a slot from free to held. Fails with
	// ErrSlotUnavailable if the slot is already held or booked.
	Hold(ctx context.Context, providerID, date, timeLabel string) (*models.SlotHold, error)
	// Release returns a held slot to free. Safe to call on an expired or
	// superseded hold; only the owning hold can free the slot.
	Release(ctx context.Context, hold models.SlotHold) error
	// ConfirmBooked transitions the held slot to booked. Fails with
	// ErrSlotUnavailable if the hold has lapsed.
	ConfirmBooked(ctx context.Context, hold models.SlotHold) error
	// Free releases a booked slot after cancellation.
	Free(ctx context.Context, providerID, date, timeLabel string) error
}

// Scheduler coordinates slot reservation and the appointment lifecycle:
// propose holds a slot, commit turns the hold into a scheduled appointment,
// cancel and complete drive the one-directional status transitions.
type Scheduler interface {
	Propose(ctx context.Context, userID, providerID, date, timeLabel string) (*models.Reservation, error)
	Commit(ctx context.Context, res models.Reservation) (*models.Appointment, error)
	Cancel(ctx context.Context, appointmentID string) error
	Complete(ctx context.Context, appointmentID string) error
	ListUserAppointments(ctx context.Context, userID string) ([]models.Appointment, error)
}
