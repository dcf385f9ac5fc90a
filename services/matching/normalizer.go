package matching

import (
	"sort"
	"strconv"
	"strings"

	"therapia/models"
)

// NormalizeCriteria turns raw filter input into a canonical, validated
// MatchCriteria. No side effects. Empty fields are legal: an empty set
// imposes no constraint, and criteria-only matching (no free text) is valid.
func NormalizeCriteria(raw models.RawMatchCriteria) (models.MatchCriteria, error) {
	var criteria models.MatchCriteria

	format := strings.ToLower(strings.TrimSpace(raw.SessionFormat))
	switch format {
	case "", models.FormatInPerson, models.FormatOnline, models.FormatBoth:
		criteria.SessionFormat = format
	default:
		return models.MatchCriteria{}, newCriteriaError("sessionFormat",
			"must be one of in-person, online, both")
	}

	if rateStr := strings.TrimSpace(raw.MaxRate); rateStr != "" {
		rate, err := strconv.ParseFloat(rateStr, 64)
		if err != nil {
			return models.MatchCriteria{}, newCriteriaError("maxRate", "must be a number")
		}
		if rate < 0 {
			return models.MatchCriteria{}, newCriteriaError("maxRate", "must be non-negative")
		}
		criteria.MaxRate = &rate
	}

	criteria.Specialties = normalizeSet(raw.Specialties)
	criteria.Languages = normalizeSet(raw.Languages)
	criteria.Need = strings.TrimSpace(raw.Need)

	return criteria, nil
}

// normalizeSet trims, lower-cases, deduplicates and sorts a label set.
// Sorting keeps canonical criteria byte-stable for cache keys.
func normalizeSet(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var out []string
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
