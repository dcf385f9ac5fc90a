package models

import "time"

// RankedTherapist pairs a candidate with its deterministic score and an
// optional human-readable rationale attached by the explanation provider.
type RankedTherapist struct {
	Therapist   TherapistProfile `json:"therapist"`
	Score       float64          `json:"score"`
	Explanation string           `json:"explanation,omitempty"`
}

// MatchResult is the ordered outcome of one match request. Matches are sorted
// by score descending; ties break on rating descending, then id ascending, so
// identical inputs always produce identical orderings.
type MatchResult struct {
	Criteria    MatchCriteria     `json:"criteria"`
	Matches     []RankedTherapist `json:"matches"`
	GeneratedAt time.Time         `json:"generatedAt"`
}
