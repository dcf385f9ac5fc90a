package scheduling

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appointmentRepo "therapia/database/repository/appointment"
	"therapia/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeAppointmentRemind is the asynq task type for appointment reminders.
const TypeAppointmentRemind = "appointment:remind"

// DefaultScheduler implements Scheduler. Commit is transactional with respect
// to slot state: a failed persist releases the hold so the slot is never
// leaked as permanently held. No operation retries silently; conflicts and
// store faults surface to the caller.
type DefaultScheduler struct {
	Availability AvailabilityManager
	Appointments appointmentRepo.AppointmentRepository
	Reminders    *asynq.Client // optional; nil disables reminder enqueue
	ReminderLead time.Duration
}

// Propose begins a booking attempt by holding the slot. On conflict the
// caller receives ErrSlotUnavailable and should re-query availability.
func (s *DefaultScheduler) Propose(ctx context.Context, userID, providerID, date, timeLabel string) (*models.Reservation, error) {
	if userID == "" || providerID == "" || timeLabel == "" {
		return nil, fmt.Errorf("propose: %w", ErrInvalidRequest)
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return nil, fmt.Errorf("propose: bad date %q: %w", date, ErrInvalidRequest)
	}

	hold, err := s.Availability.Hold(ctx, providerID, date, timeLabel)
	if err != nil {
		return nil, err
	}
	return &models.Reservation{
		ID:     uuid.New().String(),
		UserID: userID,
		Hold:   *hold,
	}, nil
}

// Commit creates the appointment and books the held slot. On a store fault
// the hold is released and ErrPersistenceFailed returned; the caller may
// retry the whole propose/commit sequence. Losing the unique-slot constraint
// race maps to ErrSlotUnavailable, not a retryable persistence error.
func (s *DefaultScheduler) Commit(ctx context.Context, res models.Reservation) (*models.Appointment, error) {
	appt := &models.Appointment{
		ID:         uuid.New().String(),
		UserID:     res.UserID,
		ProviderID: res.Hold.ProviderID,
		Date:       res.Hold.Date,
		TimeLabel:  res.Hold.TimeLabel,
		Status:     models.AppointmentScheduled,
		CreatedAt:  time.Now(),
	}

	if err := s.Appointments.Insert(ctx, appt); err != nil {
		if releaseErr := s.Availability.Release(ctx, res.Hold); releaseErr != nil {
			zap.L().Error("failed to release hold after insert failure",
				zap.String("slot", res.Hold.ProviderID+"/"+res.Hold.Date+"/"+res.Hold.TimeLabel),
				zap.Error(releaseErr))
		}
		if errors.Is(err, appointmentRepo.ErrDuplicateActive) {
			return nil, fmt.Errorf("commit reservation %s: %w", res.ID, ErrSlotUnavailable)
		}
		return nil, fmt.Errorf("commit reservation %s: %v: %w", res.ID, err, ErrPersistenceFailed)
	}

	// The store's unique active-slot constraint is the backstop here: even if
	// the hold lapsed between insert and confirm, a competing commit for the
	// same slot cannot produce a second active appointment.
	if err := s.Availability.ConfirmBooked(ctx, res.Hold); err != nil {
		zap.L().Warn("hold lapsed before booking confirmation; appointment stands",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}

	s.enqueueReminder(appt)
	return appt, nil
}

// Cancel transitions a scheduled appointment to cancelled and frees its slot
// for rebooking. Missing ids and terminal statuses are distinct failures: a
// cancel that did not free a slot must not look like one that did.
func (s *DefaultScheduler) Cancel(ctx context.Context, appointmentID string) error {
	appt, err := s.getForTransition(ctx, appointmentID)
	if err != nil {
		return err
	}
	if err := s.transition(ctx, appt, models.AppointmentCancelled); err != nil {
		return err
	}
	if err := s.Availability.Free(ctx, appt.ProviderID, appt.Date, appt.TimeLabel); err != nil {
		zap.L().Error("failed to free slot after cancellation",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
	return nil
}

// Complete transitions a scheduled appointment to completed. The slot stays
// consumed.
func (s *DefaultScheduler) Complete(ctx context.Context, appointmentID string) error {
	appt, err := s.getForTransition(ctx, appointmentID)
	if err != nil {
		return err
	}
	return s.transition(ctx, appt, models.AppointmentCompleted)
}

func (s *DefaultScheduler) ListUserAppointments(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.Appointments.ListByUser(ctx, userID)
}

func (s *DefaultScheduler) getForTransition(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", appointmentID, ErrAppointmentNotFound)
		}
		return nil, fmt.Errorf("appointment %s: %v: %w", appointmentID, err, ErrPersistenceFailed)
	}
	if appt.Status != models.AppointmentScheduled {
		return nil, fmt.Errorf("appointment %s is %s: %w", appointmentID, appt.Status, ErrInvalidTransition)
	}
	return appt, nil
}

func (s *DefaultScheduler) transition(ctx context.Context, appt *models.Appointment, to string) error {
	err := s.Appointments.UpdateStatus(ctx, appt.ID, models.AppointmentScheduled, to)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, appointmentRepo.ErrStatusConflict):
		// Someone else completed or cancelled it between our read and write.
		return fmt.Errorf("appointment %s: %w", appt.ID, ErrInvalidTransition)
	case errors.Is(err, appointmentRepo.ErrNotFound):
		return fmt.Errorf("appointment %s: %w", appt.ID, ErrAppointmentNotFound)
	default:
		return fmt.Errorf("appointment %s: %v: %w", appt.ID, err, ErrPersistenceFailed)
	}
}

// enqueueReminder schedules a reminder task ahead of the appointment.
// Best effort: reminder loss never fails a commit.
func (s *DefaultScheduler) enqueueReminder(appt *models.Appointment) {
	if s.Reminders == nil {
		return
	}
	startAt, ok := appointmentStart(appt)
	if !ok {
		return
	}
	remindAt := startAt.Add(-s.ReminderLead)
	if remindAt.Before(time.Now()) {
		return
	}

	payload, err := json.Marshal(models.ReminderPayload{
		AppointmentID: appt.ID,
		UserID:        appt.UserID,
		ProviderID:    appt.ProviderID,
		Date:          appt.Date,
		TimeLabel:     appt.TimeLabel,
	})
	if err != nil {
		return
	}
	task := asynq.NewTask(TypeAppointmentRemind, payload)
	if _, err := s.Reminders.Enqueue(task, asynq.ProcessAt(remindAt)); err != nil {
		zap.L().Warn("failed to enqueue appointment reminder",
			zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

// appointmentStart resolves the appointment's wall-clock start. Time labels
// are display strings; both 24h and 12h clock forms are accepted, anything
// else anchors at midday.
func appointmentStart(appt *models.Appointment) (time.Time, bool) {
	day, err := time.Parse(models.DateLayout, appt.Date)
	if err != nil {
		return time.Time{}, false
	}
	for _, layout := range []string{"15:04", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, appt.TimeLabel); err == nil {
			return day.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute), true
		}
	}
	return day.Add(12 * time.Hour), true
}
