package collage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"wholesale_portal_backend/internal/branding"
	"wholesale_portal_backend/internal/broadcast/domain"
	"wholesale_portal_backend/platform/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// defaultCacheTTL keeps rendered collages around long enough to cover a
// dispatcher re-sending the same selection to several group chats.
const defaultCacheTTL = 15 * time.Minute

// CachedRenderer wraps a Renderer with a Redis result cache. Identical
// concurrent renders are collapsed through singleflight so a burst of
// requests for the same selection draws the canvas once.
type CachedRenderer struct {
	inner *Renderer
	rdb   *redis.Client
	ttl   time.Duration
	group singleflight.Group
	log   *logger.Logger
}

// NewCachedRenderer wraps inner with caching. A nil client disables the
// cache but keeps singleflight collapsing.
func NewCachedRenderer(inner *Renderer, rdb *redis.Client, ttl time.Duration, log *logger.Logger) *CachedRenderer {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedRenderer{inner: inner, rdb: rdb, ttl: ttl, log: log}
}

// Generate returns the cached data URL when the same selection was rendered
// recently, otherwise renders and stores the result. Cache failures are
// absorbed; the render itself is the source of truth.
func (c *CachedRenderer) Generate(ctx context.Context, props []domain.PropertyRecord) (string, error) {
	key := cacheKey(c.inner.brand, props, c.inner.quality)

	if c.rdb != nil {
		if cached, err := c.rdb.Get(ctx, key).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		dataURL, err := c.inner.Generate(ctx, props)
		if err != nil {
			return "", err
		}
		if c.rdb != nil {
			if err := c.rdb.Set(ctx, key, dataURL, c.ttl).Err(); err != nil && c.log != nil {
				c.log.AssetFailure("collage_cache", key, err)
			}
		}
		return dataURL, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// cacheKey hashes everything that affects the rendered pixels: the brand,
// the ordered selection with its photos and prices, and the JPEG quality.
func cacheKey(brand branding.Profile, props []domain.PropertyRecord, quality int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s|q%d", brand.Slug(), quality)
	for _, p := range props {
		fmt.Fprintf(&b, "|%s:%s:%d:%s", p.ID, p.ImageURL, p.AskingPrice, p.ShortAddress())
	}
	sum := sha256.Sum256([]byte(b.String()))
	return "collage:" + hex.EncodeToString(sum[:])
}
