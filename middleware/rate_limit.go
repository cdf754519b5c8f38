package middleware

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

type Limiter interface {
	IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error)
}

// RateLimit limits requests per participant for one endpoint type. Requests
// without a participant fall back to the client IP. Limiter errors let the
// request through.
func RateLimit(limiter Limiter, endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier := c.Params("participantId")
		if identifier == "" {
			identifier = getClientIP(c)
		}

		allowed, info, err := limiter.IsAllowed(c.UserContext(), identifier, endpointType)
		if err != nil {
			log.WithFields(log.Fields{
				"identifier":    identifier,
				"endpoint_type": endpointType,
			}).WithError(err).Debug("Rate limit check failed, continuing")
			return c.Next()
		}

		if info != nil {
			if info.ResetTime != nil {
				c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
			}
			if info.Limit > 0 {
				c.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			}
			c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		}

		if !allowed {
			if info != nil && info.BlockedUntil != nil {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfterSeconds(*info.BlockedUntil)))
			}
			return shared.NewTooManyRequestsError(info)
		}

		return c.Next()
	}
}

// retryAfterSeconds is the Retry-After delta, rounded up and at least one second.
func retryAfterSeconds(blockedUntil time.Time) int {
	secs := int(math.Ceil(time.Until(blockedUntil).Seconds()))
	if secs < 1 {
		return 1
	}
	return secs
}

func getClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.IP()
}
