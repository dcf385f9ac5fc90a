package intelligence

import (
	"context"

	"therapia/models"
)

// Explanation ties a generated rationale to one therapist by id. The ranking
// engine validates ids against its own candidate set before attaching text.
type Explanation struct {
	TherapistID string `json:"therapistId"`
	Text        string `json:"explanation"`
}

// ExplanationProvider generates human-readable match rationale for a set of
// candidate profiles. Best effort only: callers bound it with a timeout,
// never retry within a request, and never let its output reorder or filter
// results.
type ExplanationProvider interface {
	Explain(ctx context.Context, profiles []models.TherapistProfile, need string) ([]Explanation, error)
}
