package querystoredprocedure

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet-chatbot/internal/common/database"
	"fleet-chatbot/internal/common/errors"
	"fleet-chatbot/internal/common/logger"
	"fleet-chatbot/internal/common/metrics"
	"fleet-chatbot/internal/models"
)

const cacheKeyPrefix = "chatbot:dataset:"

// CachedBackend serves repeated dataset queries from Redis. Cache failures
// never fail a fetch; they fall through to the wrapped backend.
type CachedBackend struct {
	next   Backend
	redis  *database.RedisClient
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedBackend(next Backend, rdb *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedBackend {
	return &CachedBackend{
		next:   next,
		redis:  rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "dataset-cache"}),
	}
}

// CacheKey hashes the query fingerprint so user ids never appear in key names.
func CacheKey(q models.DatasetQuery) string {
	sum := sha256.Sum256([]byte(q.Fingerprint()))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

func (c *CachedBackend) Fetch(ctx context.Context, q models.DatasetQuery) (models.ResultSet, error) {
	key := CacheKey(q)

	cached, err := c.redis.Get(ctx, key)
	switch {
	case err == nil:
		var rs models.ResultSet
		if jsonErr := json.Unmarshal([]byte(cached), &rs); jsonErr == nil {
			metrics.DatasetCacheLookups.WithLabelValues("hit").Inc()
			if rs == nil {
				rs = models.ResultSet{}
			}
			return rs, nil
		}
		metrics.DatasetCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("discarding undecodable cache entry", map[string]interface{}{"dataset": string(q.Dataset)})
	case stderrors.Is(err, redis.Nil):
		metrics.DatasetCacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.DatasetCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("cache lookup failed", map[string]interface{}{
			"dataset": string(q.Dataset),
			"error":   errors.NewCacheUnavailableError(err),
		})
	}

	rs, err := c.next.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(rs)
	if err == nil {
		err = c.redis.Set(ctx, key, data, c.ttl)
	}
	if err != nil {
		c.logger.Warn("cache store failed", map[string]interface{}{
			"dataset": string(q.Dataset),
			"error":   errors.NewCacheUnavailableError(err),
		})
	}
	return rs, nil
}
