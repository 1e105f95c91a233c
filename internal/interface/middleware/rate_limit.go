package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"inkwell/pkg/response"
)

// KeyFunc derives the rate-limit bucket key for a request.
type KeyFunc func(c *gin.Context) string

// AllowFunc returning true bypasses the limit for this request.
type AllowFunc func(c *gin.Context) bool

// KeyByIP buckets by client address.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath buckets by client address and route, for endpoints that need
// their own budget (login, register).
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + routePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByUserID buckets by the authenticated account, falling back to the
// address when the request is anonymous.
func KeyByUserID() KeyFunc {
	return func(c *gin.Context) string {
		if uid := c.GetString(CtxUserIDKey); uid != "" {
			return "rl:user:" + uid
		}
		return "rl:user:anon:ip:" + ipFromCtx(c)
	}
}

func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func routePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// INCR and set the window expiry together so the counter can never live
// without a TTL.
var incrExpire = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// RateLimit enforces a fixed-window limit per bucket key. Redis errors fail
// open: a broken limiter must not take the API down. Standard X-RateLimit
// headers are emitted on every counted request.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := keyFn(c)

		n, err := incrExpire.Run(ctx, rdb, []string{key}, window.Milliseconds()).Int()
		if err != nil {
			c.Next()
			return
		}

		remaining := max - n
		if remaining < 0 {
			remaining = 0
		}
		resetSec := 0
		if ttl, err := rdb.TTL(ctx, key).Result(); err == nil && ttl > 0 {
			resetSec = int(ttl.Seconds())
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if n > max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Error[any](c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
