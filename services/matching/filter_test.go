package matching

import (
	"testing"

	"therapia/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPool() []models.TherapistProfile {
	return []models.TherapistProfile{
		{
			ID:            "t-amara",
			Name:          "Amara",
			Specialties:   []string{"Anxiety", "Trauma"},
			Languages:     []string{"en", "fr"},
			SessionFormat: models.FormatOnline,
			Rate:          150,
			Rating:        4.9,
		},
		{
			ID:            "t-ben",
			Name:          "Ben",
			Specialties:   []string{"couples"},
			Languages:     []string{"en"},
			SessionFormat: models.FormatInPerson,
			Rate:          200,
			Rating:        4.5,
		},
		{
			ID:            "t-chloe",
			Name:          "Chloe",
			Specialties:   []string{"anxiety", "depression"},
			Languages:     []string{"en", "es"},
			SessionFormat: models.FormatBoth,
			Rate:          120,
			Rating:        4.2,
		},
	}
}

func TestFilterTherapistsEmptyCriteriaKeepsAll(t *testing.T) {
	pool := testPool()
	got := FilterTherapists(pool, models.MatchCriteria{})
	require.Len(t, got, 3)
	// Order preserved.
	assert.Equal(t, "t-amara", got[0].ID)
	assert.Equal(t, "t-ben", got[1].ID)
	assert.Equal(t, "t-chloe", got[2].ID)
}

func TestFilterTherapistsBothServesAnyFormat(t *testing.T) {
	pool := testPool()

	online := FilterTherapists(pool, models.MatchCriteria{SessionFormat: models.FormatOnline})
	require.Len(t, online, 2)
	assert.Equal(t, "t-amara", online[0].ID)
	assert.Equal(t, "t-chloe", online[1].ID)

	inPerson := FilterTherapists(pool, models.MatchCriteria{SessionFormat: models.FormatInPerson})
	require.Len(t, inPerson, 2)
	assert.Equal(t, "t-ben", inPerson[0].ID)
	assert.Equal(t, "t-chloe", inPerson[1].ID)
}

func TestFilterTherapistsRateCeiling(t *testing.T) {
	maxRate := 160.0
	got := FilterTherapists(testPool(), models.MatchCriteria{MaxRate: &maxRate})
	require.Len(t, got, 2)
	assert.Equal(t, "t-amara", got[0].ID)
	assert.Equal(t, "t-chloe", got[1].ID)

	// Boundary: a rate exactly at the ceiling passes.
	exact := 150.0
	got = FilterTherapists(testPool(), models.MatchCriteria{MaxRate: &exact})
	require.Len(t, got, 2)
	assert.Equal(t, "t-amara", got[0].ID)
}

func TestFilterTherapistsSpecialtySubsetFoldsCase(t *testing.T) {
	got := FilterTherapists(testPool(), models.MatchCriteria{Specialties: []string{"anxiety"}})
	require.Len(t, got, 2)
	assert.Equal(t, "t-amara", got[0].ID)
	assert.Equal(t, "t-chloe", got[1].ID)

	got = FilterTherapists(testPool(), models.MatchCriteria{Specialties: []string{"anxiety", "trauma"}})
	require.Len(t, got, 1)
	assert.Equal(t, "t-amara", got[0].ID)
}

func TestFilterTherapistsLanguageSubset(t *testing.T) {
	got := FilterTherapists(testPool(), models.MatchCriteria{Languages: []string{"en", "es"}})
	require.Len(t, got, 1)
	assert.Equal(t, "t-chloe", got[0].ID)
}

func TestFilterTherapistsEmptyResultIsValid(t *testing.T) {
	got := FilterTherapists(testPool(), models.MatchCriteria{Specialties: []string{"equine therapy"}})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
