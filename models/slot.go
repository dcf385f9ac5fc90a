package models

import (
	"fmt"
	"time"
)

// Slot states. A slot is the unit of mutual exclusion: at most one
// non-cancelled appointment may reference a given (provider, date, time).
const (
	SlotFree   = "free"
	SlotHeld   = "held"
	SlotBooked = "booked"
)

// DateLayout is the wire format for slot and appointment dates.
const DateLayout = "2006-01-02"

// Slot is one bookable (provider, date, time) unit with its current state.
type Slot struct {
	ProviderID string `json:"providerId"`
	Date       string `json:"date"` // "2006-01-02"
	TimeLabel  string `json:"time"` // e.g. "10:00 AM"
	State      string `json:"state"`
}

// Key returns the canonical identity of the slot's coordinates.
func (s Slot) Key() string {
	return SlotKey(s.ProviderID, s.Date, s.TimeLabel)
}

// SlotKey builds the canonical (provider, date, time) identity used by slot
// stores and hold ledgers.
func SlotKey(providerID, date, timeLabel string) string {
	return fmt.Sprintf("%s|%s|%s", providerID, date, timeLabel)
}

// SlotHold is a time-bounded exclusive reservation on a slot, produced by the
// availability manager and consumed by the scheduler on commit or release.
type SlotHold struct {
	ID         string    `json:"id"`
	ProviderID string    `json:"providerId"`
	Date       string    `json:"date"`
	TimeLabel  string    `json:"time"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// Reservation is a pending booking attempt: a slot hold tagged with the user
// who initiated it. Commit turns it into an appointment; abandoning it lets
// the hold lapse back to free.
type Reservation struct {
	ID     string   `json:"id"`
	UserID string   `json:"userId"`
	Hold   SlotHold `json:"hold"`
}
