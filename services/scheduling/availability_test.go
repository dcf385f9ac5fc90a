package scheduling

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"therapia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldIsExclusive(t *testing.T) {
	m := NewMemoryAvailabilityManager(0)
	ctx := context.Background()

	hold, err := m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	require.NotEmpty(t, hold.ID)

	_, err = m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	// A different slot on the same provider is unaffected.
	_, err = m.Hold(ctx, "prov-1", "2026-09-02", "11:00")
	assert.NoError(t, err)
}

func TestHoldConcurrentOneWinner(t *testing.T) {
	m := NewMemoryAvailabilityManager(0)
	ctx := context.Background()

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	wins := 0
	for err := range results {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, wins)
}

func TestReleaseOnlyByOwner(t *testing.T) {
	m := NewMemoryAvailabilityManager(0)
	ctx := context.Background()

	hold, err := m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)

	stranger := *hold
	stranger.ID = "not-the-owner"
	require.NoError(t, m.Release(ctx, stranger))
	_, err = m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	require.NoError(t, m.Release(ctx, *hold))
	_, err = m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	assert.NoError(t, err)
}

func TestLapsedHoldIsFreeAgain(t *testing.T) {
	m := NewMemoryAvailabilityManager(5 * time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	first, err := m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(6 * time.Minute) }

	second, err := m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)

	// The lapsed hold cannot be confirmed once superseded.
	assert.ErrorIs(t, m.ConfirmBooked(ctx, *first), ErrSlotUnavailable)
	assert.NoError(t, m.ConfirmBooked(ctx, *second))
}

func TestConfirmBookedTransitions(t *testing.T) {
	m := NewMemoryAvailabilityManager(0)
	ctx := context.Background()

	hold, err := m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	require.NoError(t, m.ConfirmBooked(ctx, *hold))

	// Booked beats hold and confirm alike.
	_, err = m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.ErrorIs(t, m.ConfirmBooked(ctx, *hold), ErrSlotUnavailable)

	// Freeing a booked slot reopens it.
	require.NoError(t, m.Free(ctx, "prov-1", "2026-09-02", "10:00"))
	_, err = m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	assert.NoError(t, err)
}

func TestConfirmBookedExpiredHold(t *testing.T) {
	m := NewMemoryAvailabilityManager(5 * time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	hold, err := m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(10 * time.Minute) }
	err = m.ConfirmBooked(ctx, *hold)
	assert.True(t, errors.Is(err, ErrSlotUnavailable))
}

func TestListFreeSlotsSubtractsHeldAndBooked(t *testing.T) {
	m := NewMemoryAvailabilityManager(0)
	ctx := context.Background()

	base := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC) // a Wednesday
	m.now = func() time.Time { return base }

	profile := models.TherapistProfile{
		ID: "prov-1",
		Availability: map[string][]string{
			strings.ToLower(base.Weekday().String()): {"10:00", "11:00", "12:00"},
		},
	}

	free, err := m.ListFreeSlots(ctx, profile, 1)
	require.NoError(t, err)
	require.Len(t, free, 3)

	hold, err := m.Hold(ctx, "prov-1", base.Format(models.DateLayout), "10:00")
	require.NoError(t, err)
	require.NoError(t, m.ConfirmBooked(ctx, *hold))
	_, err = m.Hold(ctx, "prov-1", base.Format(models.DateLayout), "11:00")
	require.NoError(t, err)

	free, err = m.ListFreeSlots(ctx, profile, 1)
	require.NoError(t, err)
	require.Len(t, free, 1)
	assert.Equal(t, "12:00", free[0].TimeLabel)
	assert.Equal(t, models.SlotFree, free[0].State)
}

func TestListFreeSlotsExpandsWindow(t *testing.T) {
	m := NewMemoryAvailabilityManager(0)

	base := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	weekday := strings.ToLower(base.Weekday().String())
	profile := models.TherapistProfile{
		ID:           "prov-1",
		Availability: map[string][]string{weekday: {"10:00"}},
	}

	// A 7-day window hits the weekday exactly once; 14 days, twice.
	free, err := m.ListFreeSlots(context.Background(), profile, 7)
	require.NoError(t, err)
	assert.Len(t, free, 1)

	free, err = m.ListFreeSlots(context.Background(), profile, 14)
	require.NoError(t, err)
	require.Len(t, free, 2)
	assert.Equal(t, base.Format(models.DateLayout), free[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 7).Format(models.DateLayout), free[1].Date)
}

func TestReapDropsOnlyLapsedHolds(t *testing.T) {
	m := NewMemoryAvailabilityManager(5 * time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	_, err := m.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	booked, err := m.Hold(ctx, "prov-1", "2026-09-02", "11:00")
	require.NoError(t, err)
	require.NoError(t, m.ConfirmBooked(ctx, *booked))

	m.now = func() time.Time { return base.Add(10 * time.Minute) }
	assert.Equal(t, 1, m.Reap())

	// The booked slot survives reaping.
	_, err = m.Hold(ctx, "prov-1", "2026-09-02", "11:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}
