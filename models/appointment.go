package models

import "time"

// Appointment statuses. Transitions are one-directional:
// scheduled -> completed and scheduled -> cancelled; both are terminal.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment is a confirmed booking. Created only through a successful
// scheduler commit; the scheduler is the sole writer of status transitions.
type Appointment struct {
	ID         string    `bson:"id" json:"id"`
	UserID     string    `bson:"userId" json:"userId"`
	ProviderID string    `bson:"providerId" json:"providerId"`
	Date       string    `bson:"date" json:"date"` // "2006-01-02"
	TimeLabel  string    `bson:"time" json:"time"`
	Status     string    `bson:"status" json:"status"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt,omitzero"`
}

// Active reports whether the appointment still occupies its slot.
// Cancelled appointments do not count against slot exclusivity.
func (a Appointment) Active() bool {
	return a.Status == AppointmentScheduled || a.Status == AppointmentCompleted
}

// ReminderPayload is the asynq task body for appointment reminders.
type ReminderPayload struct {
	AppointmentID string `json:"appointmentId"`
	UserID        string `json:"userId"`
	ProviderID    string `json:"providerId"`
	Date          string `json:"date"`
	TimeLabel     string `json:"time"`
}
