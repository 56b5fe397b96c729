package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/pkg/logger"
	"github.com/yigit/hostelhub/internal/pkg/metrics"
	"github.com/yigit/hostelhub/internal/pkg/ratelimit"
)

// RateLimitMessage is returned with every 429
const RateLimitMessage = "Too many requests, please try again later"

// RateLimit limits each client IP to limit requests per window of the limiter.
// Login endpoints are never limited. Limiter failures let the request through.
func RateLimit(limiter ratelimit.Limiter, limit int, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasSuffix(c.Request.URL.Path, "/login") {
			c.Next()
			return
		}

		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP(), limit)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn().Err(err).Msg("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retryAfter := int(math.Ceil(decision.RetryAfter(time.Now()).Seconds()))
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			m.RateLimited()

			errorDetail := dto.NewErrorDetail(dto.ErrorCodeRateLimited, RateLimitMessage)
			errorDetail = errorDetail.WithDetails(map[string]interface{}{"retry_after_seconds": retryAfter})
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}
