package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	therapistRepo "therapia/database/repository/therapist"
	"therapia/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const matchCacheTTL = 5 * time.Minute

// MatchService runs one match request end to end: normalize the raw input,
// snapshot the directory, filter, rank.
type MatchService interface {
	Match(ctx context.Context, raw models.RawMatchCriteria) (*models.MatchResult, error)
}

// DefaultMatchService implements MatchService.
type DefaultMatchService struct {
	TherapistRepo therapistRepo.TherapistRepository
	Ranker        *Ranker
	CacheClient   *redis.Client // optional; nil disables result caching
}

// Match returns the ranked result for one request. An empty result set is a
// valid outcome. Enrichment failures never fail the match; only invalid
// input or a directory read error do.
func (s *DefaultMatchService) Match(ctx context.Context, raw models.RawMatchCriteria) (*models.MatchResult, error) {
	criteria, err := NormalizeCriteria(raw)
	if err != nil {
		return nil, err
	}

	// Criteria-only requests are cacheable; free-text requests always go to
	// the explanation provider.
	cacheKey := ""
	if s.CacheClient != nil && !criteria.HasNeed() {
		criteriaBytes, err := json.Marshal(criteria)
		if err == nil {
			cacheKey = fmt.Sprintf("match:%x", criteriaBytes)
			if cached, err := s.CacheClient.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
				var result models.MatchResult
				if err := json.Unmarshal([]byte(cached), &result); err == nil {
					return &result, nil
				}
				// Corrupt cache entry: fall through to recomputation.
			}
		}
	}

	pool, err := s.TherapistRepo.ListTherapists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to snapshot therapist directory: %w", err)
	}

	candidates := FilterTherapists(pool, criteria)
	result := s.Ranker.Rank(ctx, candidates, criteria)

	if cacheKey != "" {
		if resultBytes, err := json.Marshal(result); err == nil {
			if err := s.CacheClient.Set(ctx, cacheKey, resultBytes, matchCacheTTL).Err(); err != nil {
				zap.L().Warn("failed to cache match result", zap.Error(err))
			}
		}
	}

	return &result, nil
}
