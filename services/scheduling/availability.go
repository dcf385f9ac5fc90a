package scheduling

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"therapia/models"

	"github.com/google/uuid"
)

// DefaultHoldTTL bounds how long an uncommitted hold keeps a slot off the
// market before it reverts to free.
const DefaultHoldTTL = 5 * time.Minute

type slotEntry struct {
	state     string
	holdID    string
	expiresAt time.Time
}

// MemoryAvailabilityManager keeps slot state in process. The whole ledger is
// guarded by one mutex, which makes the free-to-held transition a true
// check-and-set under arbitrary interleaving.
type MemoryAvailabilityManager struct {
	mu      sync.Mutex
	slots   map[string]*slotEntry
	holdTTL time.Duration
	now     func() time.Time
}

// NewMemoryAvailabilityManager creates an in-process availability manager.
// A non-positive ttl falls back to DefaultHoldTTL.
func NewMemoryAvailabilityManager(ttl time.Duration) *MemoryAvailabilityManager {
	if ttl <= 0 {
		ttl = DefaultHoldTTL
	}
	return &MemoryAvailabilityManager{
		slots:   make(map[string]*slotEntry),
		holdTTL: ttl,
		now:     time.Now,
	}
}

// ListFreeSlots instantiates the weekly availability template for each day in
// the window, skipping slots that are currently held or booked.
func (m *MemoryAvailabilityManager) ListFreeSlots(_ context.Context, profile models.TherapistProfile, days int) ([]models.Slot, error) {
	if days <= 0 {
		days = 7
	}
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var free []models.Slot
	for dayOffset := 0; dayOffset < days; dayOffset++ {
		day := now.AddDate(0, 0, dayOffset)
		dayLabel := strings.ToLower(day.Weekday().String())
		dateStr := day.Format(models.DateLayout)

		for _, timeLabel := range profile.Availability[dayLabel] {
			key := models.SlotKey(profile.ID, dateStr, timeLabel)
			if e, ok := m.slots[key]; ok && !m.lapsed(e, now) && e.state != models.SlotFree {
				continue
			}
			free = append(free, models.Slot{
				ProviderID: profile.ID,
				Date:       dateStr,
				TimeLabel:  timeLabel,
				State:      models.SlotFree,
			})
		}
	}
	return free, nil
}

// Hold is the atomic check-and-set: free (or lapsed-held) to held.
func (m *MemoryAvailabilityManager) Hold(_ context.Context, providerID, date, timeLabel string) (*models.SlotHold, error) {
	now := m.now()
	key := models.SlotKey(providerID, date, timeLabel)

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.slots[key]; ok && !m.lapsed(e, now) && e.state != models.SlotFree {
		return nil, fmt.Errorf("hold %s: %w", key, ErrSlotUnavailable)
	}

	hold := &models.SlotHold{
		ID:         uuid.New().String(),
		ProviderID: providerID,
		Date:       date,
		TimeLabel:  timeLabel,
		ExpiresAt:  now.Add(m.holdTTL),
	}
	m.slots[key] = &slotEntry{
		state:     models.SlotHeld,
		holdID:    hold.ID,
		expiresAt: hold.ExpiresAt,
	}
	return hold, nil
}

// Release frees a held slot. Only the owning hold releases; a lapsed hold
// superseded by another caller is left untouched.
func (m *MemoryAvailabilityManager) Release(_ context.Context, hold models.SlotHold) error {
	key := models.SlotKey(hold.ProviderID, hold.Date, hold.TimeLabel)

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.slots[key]; ok && e.state == models.SlotHeld && e.holdID == hold.ID {
		delete(m.slots, key)
	}
	return nil
}

// ConfirmBooked transitions held to booked, failing if the hold has lapsed
// or the slot was re-held by someone else.
func (m *MemoryAvailabilityManager) ConfirmBooked(_ context.Context, hold models.SlotHold) error {
	now := m.now()
	key := models.SlotKey(hold.ProviderID, hold.Date, hold.TimeLabel)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.slots[key]
	if !ok || e.state != models.SlotHeld || e.holdID != hold.ID || m.lapsed(e, now) {
		return fmt.Errorf("confirm %s: %w", key, ErrSlotUnavailable)
	}
	e.state = models.SlotBooked
	e.holdID = ""
	e.expiresAt = time.Time{}
	return nil
}

// Free returns a booked slot to the pool after cancellation.
func (m *MemoryAvailabilityManager) Free(_ context.Context, providerID, date, timeLabel string) error {
	key := models.SlotKey(providerID, date, timeLabel)

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.slots[key]; ok && e.state == models.SlotBooked {
		delete(m.slots, key)
	}
	return nil
}

// Reap drops lapsed holds. Lookups already treat lapsed holds as free; this
// just keeps the ledger from accumulating abandoned entries.
func (m *MemoryAvailabilityManager) Reap() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	reaped := 0
	for key, e := range m.slots {
		if m.lapsed(e, now) {
			delete(m.slots, key)
			reaped++
		}
	}
	return reaped
}

func (m *MemoryAvailabilityManager) lapsed(e *slotEntry, now time.Time) bool {
	return e.state == models.SlotHeld && now.After(e.expiresAt)
}
