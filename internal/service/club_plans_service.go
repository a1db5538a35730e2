package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/memberhub/memberhub/internal/metrics"
	"github.com/memberhub/memberhub/internal/upstream"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type PlansSource interface {
	ListClubPlans(ctx context.Context) (json.RawMessage, error)
}

// ClubPlansService lists membership plans for the caller's token. Results are
// cached per token when a redis client and a positive TTL are configured, and
// concurrent lookups for the same token share one upstream call.
type ClubPlansService struct {
	source      PlansSource
	credentials upstream.CredentialProvider
	cache       *redis.Client
	ttl         time.Duration
	group       singleflight.Group
	metrics     *metrics.Metrics
	logger      *logrus.Logger
}

func NewClubPlansService(
	source PlansSource,
	credentials upstream.CredentialProvider,
	cache *redis.Client,
	ttl time.Duration,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *ClubPlansService {
	return &ClubPlansService{
		source:      source,
		credentials: credentials,
		cache:       cache,
		ttl:         ttl,
		metrics:     m,
		logger:      logger,
	}
}

func (s *ClubPlansService) List(ctx context.Context) (json.RawMessage, error) {
	token, err := s.credentials.Token(ctx)
	if err != nil {
		return nil, err
	}

	key := plansCacheKey(token)
	if plans, ok := s.cached(ctx, key); ok {
		s.metrics.ObservePlanFetch("cache")
		return plans, nil
	}

	// The shared fetch outlives any single caller; the upstream client timeout bounds it.
	fetchCtx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		plans, err := s.source.ListClubPlans(fetchCtx)
		if err != nil {
			return nil, err
		}
		s.store(fetchCtx, key, plans)
		return plans, nil
	})
	if err != nil {
		s.metrics.ObservePlanFetch("error")
		s.logger.WithError(err).Error("Error fetching club plans")
		return nil, fmt.Errorf("failed to fetch club plans: %w", err)
	}

	s.metrics.ObservePlanFetch("upstream")
	return v.(json.RawMessage), nil
}

func (s *ClubPlansService) cached(ctx context.Context, key string) (json.RawMessage, bool) {
	if s.cache == nil || s.ttl <= 0 {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read club plans cache")
		return nil, false
	}
	return json.RawMessage(data), true
}

func (s *ClubPlansService) store(ctx context.Context, key string, plans json.RawMessage) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, []byte(plans), s.ttl).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to cache club plans")
	}
}

// The token itself never reaches redis.
func plansCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "club-plans:" + hex.EncodeToString(sum[:16])
}
