package matching

import (
	"context"
	"sort"
	"strings"
	"time"

	"therapia/models"
	"therapia/services/intelligence"

	"go.uber.org/zap"
)

// Score weights. Rating dominates; specialty overlap rewards targeted
// criteria without letting a single overlap outrank a consistently better
// therapist.
const (
	ratingWeight  = 0.6
	overlapWeight = 0.4
)

// DefaultTopK caps the ranked result when no explicit K is configured.
const DefaultTopK = 3

// DefaultExplainTimeout bounds the explanation call so enrichment can never
// stall the deterministic scoring path.
const DefaultExplainTimeout = 3 * time.Second

// Ranker orders filtered candidates by a deterministic score and optionally
// enriches the top-K with explanations from an external provider.
type Ranker struct {
	Explainer      intelligence.ExplanationProvider // optional
	TopK           int
	ExplainTimeout time.Duration
}

// Rank scores candidates against criteria and returns the top-K. Identical
// input always yields identical ordering and scores: ties break on rating
// descending, then id ascending. Explanation enrichment is best effort; on
// provider failure the deterministic ranking is returned without rationale.
func (r *Ranker) Rank(ctx context.Context, candidates []models.TherapistProfile, criteria models.MatchCriteria) models.MatchResult {
	ranked := make([]models.RankedTherapist, 0, len(candidates))
	for _, t := range candidates {
		ranked = append(ranked, models.RankedTherapist{
			Therapist: t,
			Score:     baseScore(t, criteria),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].Therapist.Rating != ranked[j].Therapist.Rating {
			return ranked[i].Therapist.Rating > ranked[j].Therapist.Rating
		}
		return ranked[i].Therapist.ID < ranked[j].Therapist.ID
	})

	topK := r.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	if criteria.HasNeed() && r.Explainer != nil && len(ranked) > 0 {
		r.attachExplanations(ctx, ranked, criteria.Need)
	}

	return models.MatchResult{
		Criteria:    criteria,
		Matches:     ranked,
		GeneratedAt: time.Now(),
	}
}

// baseScore is the deterministic weighted sum:
// 0.6 * (rating/5) + 0.4 * overlapCount / max(1, criteriaCount).
func baseScore(t models.TherapistProfile, criteria models.MatchCriteria) float64 {
	normalizedRating := t.Rating / 5
	overlap := specialtyOverlapRatio(t.Specialties, criteria.Specialties)
	return ratingWeight*normalizedRating + overlapWeight*overlap
}

func specialtyOverlapRatio(have, required []string) float64 {
	if len(required) == 0 {
		return 0
	}
	haveSet := make(map[string]struct{}, len(have))
	for _, h := range have {
		haveSet[strings.ToLower(strings.TrimSpace(h))] = struct{}{}
	}
	matched := 0
	for _, r := range required {
		if _, ok := haveSet[r]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(required))
}

// attachExplanations calls the external provider under its own timeout and
// attaches validated rationale to the ranked entries. Unknown therapist ids
// are discarded; duplicates keep the first occurrence. Failures only cost
// the rationale text, never the ranking.
func (r *Ranker) attachExplanations(ctx context.Context, ranked []models.RankedTherapist, need string) {
	timeout := r.ExplainTimeout
	if timeout <= 0 {
		timeout = DefaultExplainTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	profiles := make([]models.TherapistProfile, len(ranked))
	for i, rt := range ranked {
		profiles[i] = rt.Therapist
	}

	explanations, err := r.Explainer.Explain(ctx, profiles, need)
	if err != nil {
		zap.L().Warn("explanation provider unavailable, returning unexplained ranking",
			zap.Error(err))
		return
	}

	byID := make(map[string]string, len(explanations))
	for _, e := range explanations {
		if _, dup := byID[e.TherapistID]; dup {
			continue // first occurrence wins
		}
		byID[e.TherapistID] = e.Text
	}
	for i := range ranked {
		if text, ok := byID[ranked[i].Therapist.ID]; ok {
			ranked[i].Explanation = text
		}
	}
}
