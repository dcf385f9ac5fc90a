package matching

import (
	"strings"

	"therapia/models"
)

// FilterTherapists applies canonical criteria to the therapist pool. Pure and
// order-preserving; an empty result is a valid outcome, not an error.
//
// A therapist passes iff the session format matches (or the criteria leave it
// unset), the rate does not exceed the ceiling (if any), and the criteria
// specialty and language sets are subsets of the therapist's.
func FilterTherapists(pool []models.TherapistProfile, criteria models.MatchCriteria) []models.TherapistProfile {
	out := make([]models.TherapistProfile, 0, len(pool))
	for _, t := range pool {
		if !t.OffersFormat(criteria.SessionFormat) {
			continue
		}
		if criteria.MaxRate != nil && t.Rate > *criteria.MaxRate {
			continue
		}
		if !containsAll(t.Specialties, criteria.Specialties) {
			continue
		}
		if !containsAll(t.Languages, criteria.Languages) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// containsAll reports whether every required label appears in the therapist's
// set, folding case so stored casing keeps matching canonical criteria.
func containsAll(have, required []string) bool {
	if len(required) == 0 {
		return true
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, h := range have {
		haveSet[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	for _, r := range required {
		if _, ok := haveSet[r]; !ok {
			return false
		}
	}
	return true
}
