package intelligence

import (
	"context"
	"fmt"
	"strings"

	"therapia/models"

	"go.uber.org/zap"
)

// LocalExplainer builds templated rationale from specialty keywords found in
// the user's need statement. Deterministic, no network, always succeeds.
type LocalExplainer struct{}

func (LocalExplainer) Explain(_ context.Context, profiles []models.TherapistProfile, need string) ([]Explanation, error) {
	lowerNeed := strings.ToLower(need)
	explanations := make([]Explanation, 0, len(profiles))
	for _, p := range profiles {
		var mentioned []string
		for _, s := range p.Specialties {
			if strings.Contains(lowerNeed, strings.ToLower(s)) {
				mentioned = append(mentioned, s)
			}
		}
		var text string
		switch {
		case len(mentioned) > 0:
			text = fmt.Sprintf("%s specializes in %s, which matches what you described.",
				p.Name, strings.Join(mentioned, " and "))
		case len(p.Specialties) > 0:
			text = fmt.Sprintf("%s focuses on %s and is highly rated by clients.",
				p.Name, strings.Join(p.Specialties, ", "))
		default:
			text = fmt.Sprintf("%s is a highly rated therapist in your results.", p.Name)
		}
		explanations = append(explanations, Explanation{TherapistID: p.ID, Text: text})
	}
	return explanations, nil
}

// Chained tries the primary provider and falls back to the secondary when the
// primary fails or returns malformed output.
type Chained struct {
	Primary  ExplanationProvider
	Fallback ExplanationProvider
}

func (c Chained) Explain(ctx context.Context, profiles []models.TherapistProfile, need string) ([]Explanation, error) {
	explanations, err := c.Primary.Explain(ctx, profiles, need)
	if err == nil {
		return explanations, nil
	}
	if c.Fallback == nil {
		return nil, err
	}
	zap.L().Warn("primary explanation provider failed, using fallback", zap.Error(err))
	return c.Fallback.Explain(ctx, profiles, need)
}
