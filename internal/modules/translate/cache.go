package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	pkgredis "github.com/asl-dict/core/internal/pkg/redis"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "asl:translation:"

// Cache stores translation results in Redis keyed by a content hash of
// the normalized (lower-cased) query. Caching is strictly best-effort:
// every failure degrades to a miss or a skipped write, never an error
// surfaced to the request.
type Cache struct {
	rc     *pkgredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache creates a Cache. A nil redis client disables caching entirely.
func NewCache(rc *pkgredis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{rc: rc, ttl: ttl, logger: logger}
}

// Enabled reports whether a backing store is configured.
func (c *Cache) Enabled() bool { return c != nil && c.rc != nil }

// CacheKey derives the Redis key for a query. The key depends only on the
// case-folded text, never on which credential produced the result.
func CacheKey(text string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(text)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])[:16]
}

// Lookup returns the cached result for a query, or nil on any miss or
// cache failure.
func (c *Cache) Lookup(ctx context.Context, text string) *Result {
	if !c.Enabled() {
		return nil
	}

	raw, err := c.rc.Get(ctx, CacheKey(text))
	if err != nil || raw == "" {
		if err != nil {
			c.logger.Warn("cache lookup failed", zap.Error(err))
		}
		return nil
	}

	var result Result
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		c.logger.Warn("cache entry is not valid JSON, treating as miss", zap.Error(err))
		return nil
	}
	return &result
}

// Store writes a result under the normalized key with the configured TTL.
// Failures are logged and swallowed.
func (c *Cache) Store(ctx context.Context, text string, result *Result) {
	if !c.Enabled() || result == nil {
		return
	}

	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache marshal failed", zap.Error(err))
		return
	}
	if err := c.rc.Set(ctx, CacheKey(text), raw, c.ttl); err != nil {
		c.logger.Warn("cache store failed", zap.Error(err))
	}
}

// Invalidate removes the entry for one query.
func (c *Cache) Invalidate(ctx context.Context, text string) {
	if !c.Enabled() {
		return
	}
	if err := c.rc.Del(ctx, CacheKey(text)); err != nil {
		c.logger.Warn("cache invalidate failed", zap.Error(err))
	}
}

// InvalidateAll removes every translation entry. Returns the number of
// keys deleted.
func (c *Cache) InvalidateAll(ctx context.Context) int64 {
	if !c.Enabled() {
		return 0
	}

	keys, err := c.rc.ScanKeys(ctx, cacheKeyPrefix+"*")
	if err != nil {
		c.logger.Warn("cache scan failed", zap.Error(err))
		return 0
	}
	if len(keys) == 0 {
		return 0
	}
	if err := c.rc.Del(ctx, keys...); err != nil {
		c.logger.Warn("cache purge failed", zap.Error(err))
		return 0
	}
	return int64(len(keys))
}

// CacheStats describes the cache backend for the admin surface.
type CacheStats struct {
	Enabled            bool   `json:"enabled"`
	Status             string `json:"status"`
	CachedTranslations int64  `json:"cached_translations,omitempty"`
	KeyspaceHits       int64  `json:"keyspace_hits,omitempty"`
	KeyspaceMisses     int64  `json:"keyspace_misses,omitempty"`
}

// Stats reports counts from the backing store.
func (c *Cache) Stats(ctx context.Context) CacheStats {
	if !c.Enabled() {
		return CacheStats{Enabled: false, Status: "disabled"}
	}

	keys, err := c.rc.ScanKeys(ctx, cacheKeyPrefix+"*")
	if err != nil {
		c.logger.Warn("cache stats scan failed", zap.Error(err))
		return CacheStats{Enabled: true, Status: "error"}
	}

	stats := CacheStats{
		Enabled:            true,
		Status:             "connected",
		CachedTranslations: int64(len(keys)),
	}

	if info, err := c.rc.Raw().Info(ctx, "stats").Result(); err == nil {
		stats.KeyspaceHits = parseInfoField(info, "keyspace_hits")
		stats.KeyspaceMisses = parseInfoField(info, "keyspace_misses")
	}
	return stats
}

func parseInfoField(info, field string) int64 {
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, field+":") {
			continue
		}
		var n int64
		for _, ch := range strings.TrimPrefix(line, field+":") {
			if ch < '0' || ch > '9' {
				break
			}
			n = n*10 + int64(ch-'0')
		}
		return n
	}
	return 0
}
