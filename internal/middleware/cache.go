package middleware

import (
	"github.com/gin-gonic/gin"
)

// CacheHeader reports whether a response was served from the search cache.
const CacheHeader = "X-Cache"

const cacheHitKey = "cache_hit"

// SetCacheHit records the cache outcome on the context and the response headers.
func SetCacheHit(c *gin.Context, hit bool) {
	c.Set(cacheHitKey, hit)
	if hit {
		c.Header(CacheHeader, "HIT")
		return
	}
	c.Header(CacheHeader, "MISS")
}

// CacheHit reads the outcome stored by SetCacheHit.
func CacheHit(c *gin.Context) bool {
	return c.GetBool(cacheHitKey)
}
