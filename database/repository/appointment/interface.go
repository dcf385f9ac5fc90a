package appointmentRepo

import (
	"context"
	"errors"

	"therapia/models"
)

// Store-level failure modes the scheduler maps into its own taxonomy.
var (
	// ErrNotFound means no appointment exists with the given id.
	ErrNotFound = errors.New("appointment not found")
	// ErrDuplicateActive means the slot already carries a scheduled or
	// completed appointment; the unique index rejected the insert.
	ErrDuplicateActive = errors.New("active appointment already exists for slot")
	// ErrStatusConflict means the guarded status update matched nothing:
	// the appointment moved to another status concurrently.
	ErrStatusConflict = errors.New("appointment status changed concurrently")
)

// AppointmentRepository is the system of record for appointments. The store
// enforces at most one active appointment per (providerId, date, time); the
// scheduler is the sole writer of status transitions.
type AppointmentRepository interface {
	Insert(ctx context.Context, appt *models.Appointment) error
	// UpdateStatus transitions id from the expected current status to the new
	// one. Returns ErrStatusConflict if the appointment is no longer in the
	// expected status, ErrNotFound if it does not exist.
	UpdateStatus(ctx context.Context, id, from, to string) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	// ListActiveByProvider returns scheduled and completed appointments for a
	// provider in a date range; availability listing subtracts these.
	ListActiveByProvider(ctx context.Context, providerID, fromDate, toDate string) ([]models.Appointment, error)
	EnsureIndexes(ctx context.Context) error
}
