package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	appointmentRepo "therapia/database/repository/appointment"
	"therapia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAppointmentRepo mimics the store, including its unique active-slot
// constraint and guarded status updates.
type fakeAppointmentRepo struct {
	mu        sync.Mutex
	byID      map[string]models.Appointment
	insertErr error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: make(map[string]models.Appointment)}
}

func (f *fakeAppointmentRepo) Insert(_ context.Context, appt *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.insertErr != nil {
		return f.insertErr
	}
	for _, existing := range f.byID {
		if existing.ProviderID == appt.ProviderID && existing.Date == appt.Date &&
			existing.TimeLabel == appt.TimeLabel && existing.Status != models.AppointmentCancelled {
			return appointmentRepo.ErrDuplicateActive
		}
	}
	f.byID[appt.ID] = *appt
	return nil
}

func (f *fakeAppointmentRepo) UpdateStatus(_ context.Context, id, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	appt, ok := f.byID[id]
	if !ok {
		return appointmentRepo.ErrNotFound
	}
	if appt.Status != from {
		return appointmentRepo.ErrStatusConflict
	}
	appt.Status = to
	f.byID[id] = appt
	return nil
}

func (f *fakeAppointmentRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	appt, ok := f.byID[id]
	if !ok {
		return nil, appointmentRepo.ErrNotFound
	}
	return &appt, nil
}

func (f *fakeAppointmentRepo) ListByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, appt := range f.byID {
		if appt.UserID == userID {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) ListActiveByProvider(_ context.Context, providerID, fromDate, toDate string) ([]models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.Appointment
	for _, appt := range f.byID {
		if appt.ProviderID == providerID && appt.Status != models.AppointmentCancelled &&
			appt.Date >= fromDate && appt.Date <= toDate {
			out = append(out, appt)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) EnsureIndexes(context.Context) error { return nil }

func newTestScheduler(repo appointmentRepo.AppointmentRepository) (*DefaultScheduler, *MemoryAvailabilityManager) {
	availability := NewMemoryAvailabilityManager(0)
	return &DefaultScheduler{
		Availability: availability,
		Appointments: repo,
	}, availability
}

func TestProposeValidatesInput(t *testing.T) {
	s, _ := newTestScheduler(newFakeAppointmentRepo())
	ctx := context.Background()

	_, err := s.Propose(ctx, "", "prov-1", "2026-09-02", "10:00")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = s.Propose(ctx, "user-1", "", "2026-09-02", "10:00")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = s.Propose(ctx, "user-1", "prov-1", "tomorrow", "10:00")
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestProposeCommitHappyPath(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s, availability := newTestScheduler(repo)
	ctx := context.Background()

	res, err := s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	require.NotEmpty(t, res.ID)
	assert.Equal(t, "user-1", res.UserID)

	appt, err := s.Commit(ctx, *res)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentScheduled, appt.Status)
	assert.Equal(t, "prov-1", appt.ProviderID)

	stored, err := repo.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentScheduled, stored.Status)

	// The slot is consumed.
	_, err = availability.Hold(ctx, "prov-1", "2026-09-02", "10:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s, _ := newTestScheduler(repo)
	ctx := context.Background()

	const attempts = 20
	var wg sync.WaitGroup
	outcomes := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "10:00")
			if err == nil {
				_, err = s.Commit(ctx, *res)
			}
			outcomes <- err
		}()
	}
	wg.Wait()
	close(outcomes)

	wins := 0
	for err := range outcomes {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrSlotUnavailable)
		}
	}
	assert.Equal(t, 1, wins)

	appts, err := repo.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, appts, 1)
}

func TestCommitReleasesHoldOnStoreFault(t *testing.T) {
	repo := newFakeAppointmentRepo()
	repo.insertErr = errors.New("mongo down")
	s, _ := newTestScheduler(repo)
	ctx := context.Background()

	res, err := s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)

	_, err = s.Commit(ctx, *res)
	assert.ErrorIs(t, err, ErrPersistenceFailed)

	// The hold was released; a retry can reacquire the slot.
	repo.insertErr = nil
	res, err = s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	_, err = s.Commit(ctx, *res)
	assert.NoError(t, err)
}

func TestCommitDuplicateActiveMapsToSlotUnavailable(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s, _ := newTestScheduler(repo)
	ctx := context.Background()

	res, err := s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	_, err = s.Commit(ctx, *res)
	require.NoError(t, err)

	// Bypass the hold layer to simulate a competing instance that already
	// persisted the same slot.
	stale := models.Reservation{
		ID:     "stale",
		UserID: "user-2",
		Hold: models.SlotHold{
			ID: "stale-hold", ProviderID: "prov-1", Date: "2026-09-02", TimeLabel: "10:00",
		},
	}
	_, err = s.Commit(ctx, stale)
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	assert.NotErrorIs(t, err, ErrPersistenceFailed)
}

func TestCancelFreesSlotForRebooking(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s, _ := newTestScheduler(repo)
	ctx := context.Background()

	res, err := s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	appt, err := s.Commit(ctx, *res)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(ctx, appt.ID))

	stored, err := repo.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, stored.Status)

	// The same slot books again for another user.
	res, err = s.Propose(ctx, "user-2", "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	again, err := s.Commit(ctx, *res)
	require.NoError(t, err)
	assert.Equal(t, "user-2", again.UserID)
}

func TestCancelErrorTaxonomy(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s, _ := newTestScheduler(repo)
	ctx := context.Background()

	assert.ErrorIs(t, s.Cancel(ctx, "no-such-id"), ErrAppointmentNotFound)

	res, err := s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	appt, err := s.Commit(ctx, *res)
	require.NoError(t, err)

	require.NoError(t, s.Complete(ctx, appt.ID))
	assert.ErrorIs(t, s.Cancel(ctx, appt.ID), ErrInvalidTransition)
}

func TestCompleteTransitions(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s, _ := newTestScheduler(repo)
	ctx := context.Background()

	assert.ErrorIs(t, s.Complete(ctx, "no-such-id"), ErrAppointmentNotFound)

	res, err := s.Propose(ctx, "user-1", "prov-1", "2026-09-02", "10:00")
	require.NoError(t, err)
	appt, err := s.Commit(ctx, *res)
	require.NoError(t, err)

	require.NoError(t, s.Complete(ctx, appt.ID))
	stored, err := repo.GetByID(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCompleted, stored.Status)

	// Terminal states reject further transitions.
	assert.ErrorIs(t, s.Complete(ctx, appt.ID), ErrInvalidTransition)
}

func TestListUserAppointments(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s, _ := newTestScheduler(repo)
	ctx := context.Background()

	for _, slot := range []string{"10:00", "11:00"} {
		res, err := s.Propose(ctx, "user-1", "prov-1", "2026-09-02", slot)
		require.NoError(t, err)
		_, err = s.Commit(ctx, *res)
		require.NoError(t, err)
	}

	appts, err := s.ListUserAppointments(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, appts, 2)

	appts, err = s.ListUserAppointments(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, appts)
}
