package security

import (
	"fmt"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis    redis.Cmdable
	window   time.Duration
	requests int64
}

func NewRateLimiter(redisClient redis.Cmdable, window time.Duration, requests int64) *RateLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if requests <= 0 {
		requests = 30
	}
	return &RateLimiter{redis: redisClient, window: window, requests: requests}
}

// Limit wraps a route handler with a fixed-window counter keyed by the
// authenticated account, falling back to the remote IP. Intended for the
// settlement and voting routes.
func (r *RateLimiter) Limit(next func(*core.RequestEvent) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		key := fmt.Sprintf("ratelimit:ip:%s", e.RealIP())
		if e.Auth != nil {
			key = fmt.Sprintf("ratelimit:user:%s", e.Auth.Id)
		}

		ctx := e.Request.Context()
		count, err := r.redis.Incr(ctx, key).Result()
		if err == nil {
			if count == 1 {
				r.redis.Expire(ctx, key, r.window)
			}
			if count > r.requests {
				return apis.NewTooManyRequestsError("Rate limit exceeded. Please try again later.", nil)
			}
		}

		return next(e)
	}
}

// AntiBot rejects requests from obvious automated clients before they
// reach the settlement routes.
func (r *RateLimiter) AntiBot(next func(*core.RequestEvent) error) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		userAgent := e.Request.Header.Get("User-Agent")
		if isSuspiciousUserAgent(userAgent) {
			return apis.NewForbiddenError("Access denied", nil)
		}
		return next(e)
	}
}

func isSuspiciousUserAgent(ua string) bool {
	suspicious := []string{"bot", "crawler", "spider", "scraper"}
	for _, pattern := range suspicious {
		if strings.Contains(strings.ToLower(ua), pattern) {
			return true
		}
	}
	return false
}
