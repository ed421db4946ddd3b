package middleware

import (
	"log"
	"net/http"
	"time"

	"rentzy/internal/caching"
	"rentzy/internal/common"

	"github.com/labstack/echo/v4"
)

const (
	AuthRateLimit    = 5
	GeneralRateLimit = 100
	RateLimitWindow  = 15 * time.Minute

	authLimitMessage    = "Too many authentication attempts, please try again in 15 minutes."
	generalLimitMessage = "Too many requests, please try again later."
)

// RateLimit counts requests per client IP within a fixed window, backed by
// the cache service. The limiter fails open when the cache is unreachable.
func RateLimit(cacheSvc caching.CacheService, scope string, limit int, window time.Duration, message string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Preflight requests are exempt so CORS keeps working under load.
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}

			key := scope + ":" + c.RealIP()
			limited, err := cacheSvc.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				log.Printf("Rate limit check failed for %s: %v", key, err)
				return next(c)
			}
			if limited {
				return common.SendError(c, http.StatusTooManyRequests, message)
			}

			return next(c)
		}
	}
}

// AuthRateLimiter is the stricter limiter applied to credential endpoints.
func AuthRateLimiter(cacheSvc caching.CacheService) echo.MiddlewareFunc {
	return RateLimit(cacheSvc, "auth", AuthRateLimit, RateLimitWindow, authLimitMessage)
}

// GeneralRateLimiter covers everything else.
func GeneralRateLimiter(cacheSvc caching.CacheService) echo.MiddlewareFunc {
	return RateLimit(cacheSvc, "general", GeneralRateLimit, RateLimitWindow, generalLimitMessage)
}
