package matching

import (
	"context"
	"errors"
	"testing"

	"therapia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTherapistRepo struct {
	profiles []models.TherapistProfile
	listErr  error
}

func (f *fakeTherapistRepo) ListTherapists(context.Context) ([]models.TherapistProfile, error) {
	return f.profiles, f.listErr
}

func (f *fakeTherapistRepo) GetByID(_ context.Context, id string) (*models.TherapistProfile, error) {
	for i := range f.profiles {
		if f.profiles[i].ID == id {
			return &f.profiles[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeTherapistRepo) Create(_ context.Context, profile *models.TherapistProfile) error {
	f.profiles = append(f.profiles, *profile)
	return nil
}

func (f *fakeTherapistRepo) Update(context.Context, *models.TherapistProfile) error { return nil }

func (f *fakeTherapistRepo) EnsureIndexes(context.Context) error { return nil }

func TestMatchEndToEnd(t *testing.T) {
	svc := &DefaultMatchService{
		TherapistRepo: &fakeTherapistRepo{profiles: testPool()},
		Ranker:        &Ranker{},
	}

	result, err := svc.Match(context.Background(), models.RawMatchCriteria{
		Specialties: []string{"Anxiety"},
		MaxRate:     "160",
	})
	require.NoError(t, err)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, "t-amara", result.Matches[0].Therapist.ID)
	assert.InDelta(t, 0.988, result.Matches[0].Score, 1e-9)
	assert.Equal(t, "t-chloe", result.Matches[1].Therapist.ID)
}

func TestMatchRejectsInvalidCriteria(t *testing.T) {
	svc := &DefaultMatchService{
		TherapistRepo: &fakeTherapistRepo{profiles: testPool()},
		Ranker:        &Ranker{},
	}

	_, err := svc.Match(context.Background(), models.RawMatchCriteria{MaxRate: "free"})
	require.Error(t, err)
	assert.True(t, IsInvalidCriteria(err))
}

func TestMatchEmptyResultIsNotAnError(t *testing.T) {
	svc := &DefaultMatchService{
		TherapistRepo: &fakeTherapistRepo{profiles: testPool()},
		Ranker:        &Ranker{},
	}

	result, err := svc.Match(context.Background(), models.RawMatchCriteria{
		Specialties: []string{"equine therapy"},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Matches)
}

func TestMatchSurfacesDirectoryFailure(t *testing.T) {
	svc := &DefaultMatchService{
		TherapistRepo: &fakeTherapistRepo{listErr: errors.New("mongo down")},
		Ranker:        &Ranker{},
	}

	_, err := svc.Match(context.Background(), models.RawMatchCriteria{})
	require.Error(t, err)
	assert.False(t, IsInvalidCriteria(err))
}
