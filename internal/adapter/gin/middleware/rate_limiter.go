package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"person-web-service/pkg/logger"
)

// tokenBucket refills at ARGV[1] tokens/s up to ARGV[2] and takes one token per call.
// Returns 1 when the request may proceed.
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill)
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', tostring(now), 'tokens', tostring(tokens))
redis.call('EXPIRE', key, ttl)
return allowed
`)

// RateLimiterConfig holds the token bucket parameters.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstCapacity     int
}

// RateLimiter throttles clients with a Redis-backed token bucket.
type RateLimiter struct {
	client *redis.Client
	config RateLimiterConfig
	log    *zap.Logger
	// now reads the bucket clock. Redis TIME keeps replicas on one clock.
	now func(ctx context.Context) (time.Time, error)
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(client *redis.Client, config RateLimiterConfig, log *zap.Logger) *RateLimiter {
	rl := &RateLimiter{client: client, config: config, log: log}
	rl.now = rl.redisTime
	return rl
}

func (rl *RateLimiter) redisTime(ctx context.Context) (time.Time, error) {
	return rl.client.Time(ctx).Result()
}

// ttlSeconds keeps an idle bucket until it would have refilled completely.
func (rl *RateLimiter) ttlSeconds() int {
	if rl.config.RequestsPerSecond <= 0 {
		return 60
	}
	ttl := int(float64(rl.config.BurstCapacity)/rl.config.RequestsPerSecond) + 1
	if ttl < 60 {
		return 60
	}
	return ttl
}

// Allow reports whether key may spend one token.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	ts, err := rl.now(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read redis time: %w", err)
	}
	now := float64(ts.UnixMicro()) / 1e6
	res, err := tokenBucket.Run(ctx, rl.client, []string{key},
		strconv.FormatFloat(rl.config.RequestsPerSecond, 'f', -1, 64),
		rl.config.BurstCapacity,
		strconv.FormatFloat(now, 'f', 6, 64),
		rl.ttlSeconds(),
	).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// Middleware returns the gin handler. Redis failures let the request through.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, c.FullPath(), c.ClientIP())

		allowed, err := rl.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limiter redis error, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if !allowed {
			logger.WithContext(c.Request.Context(), rl.log).Warn("rate limit exceeded",
				zap.String("client_ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", "1")
			c.String(http.StatusTooManyRequests, "Too Many Requests")
			c.Abort()
			return
		}

		c.Next()
	}
}
