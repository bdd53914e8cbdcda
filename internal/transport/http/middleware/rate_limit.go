package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ayatech/muslim-companion-api/internal/governance"
)

const (
	rateLimitProblemType  = "https://api.muslimcompanion.example.com/errors/rate-limit-exceeded"
	rateLimitProblemTitle = "Rate Limit Exceeded"
	rateLimitCode         = "RATE_LIMIT_EXCEEDED"
)

// ProblemDetails represents an RFC 9457 compatible error payload for rate limits.
type ProblemDetails struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail"`
	Instance   string `json:"instance"`
	Code       string `json:"code"`
	RetryAfter int    `json:"retry_after"`
	TraceID    string `json:"trace_id,omitempty"`
}

// RateLimit enforces the per-identity request quota on every route it wraps.
// Authenticated callers are counted per user id under the higher quota;
// anonymous callers per client IP. Must run after OptionalAuth (or
// RequireAuth) so the user identity is already resolved.
func RateLimit(limiter *governance.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		scope := governance.ScopeAnon
		identity := c.ClientIP()
		if userID := GetUserID(c); userID != "" {
			scope = governance.ScopeUser
			identity = userID
		}
		if identity == "" {
			c.Next()
			return
		}

		decision := limiter.CheckAndIncrement(c.Request.Context(), scope, identity)

		// Whitelisted callers get neither counters nor headers.
		if !decision.Bypassed {
			applyRateLimitHeaders(c, decision)
		}

		if !decision.Allowed {
			respondRateLimited(c, decision)
			return
		}

		c.Next()
	}
}

func applyRateLimitHeaders(c *gin.Context, decision governance.Decision) {
	headers := c.Writer.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(decision.ResetAt.Unix(), 10))

	if !decision.Allowed {
		headers.Set("Retry-After", strconv.Itoa(retrySeconds(decision)))
	}
}

func respondRateLimited(c *gin.Context, decision governance.Decision) {
	seconds := retrySeconds(decision)

	instance := c.FullPath()
	if instance == "" {
		instance = c.Request.URL.Path
	}

	problem := ProblemDetails{
		Type:       rateLimitProblemType,
		Title:      rateLimitProblemTitle,
		Status:     http.StatusTooManyRequests,
		Detail:     fmt.Sprintf("Too many requests. Try again in %d seconds.", seconds),
		Instance:   instance,
		Code:       rateLimitCode,
		RetryAfter: seconds,
		TraceID:    GetTraceID(c),
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, problem)
}

func retrySeconds(decision governance.Decision) int {
	seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
	if seconds < 0 {
		seconds = 0
	}
	return seconds
}
