package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/shared"
)

type stubLimiter struct {
	allowed bool
	err     error
	seen    []string
}

func (s *stubLimiter) IsAllowed(_ context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	s.seen = append(s.seen, identifier+"|"+endpointType)
	reset := time.Now().Add(time.Minute)
	return s.allowed, &dto.RateLimitInfo{Allowed: s.allowed, ResetTime: &reset, BlockedUntil: &reset}, s.err
}

func newApp(limiter Limiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
			}
			return shared.ResponseInternalError(c)
		},
	})
	app.Post("/p/:participantId/quiz", RateLimit(limiter, shared.EndpointQuizComplete), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimitKeysByParticipant(t *testing.T) {
	limiter := &stubLimiter{allowed: true}
	resp, err := newApp(limiter).Test(httptest.NewRequest("POST", "/p/p-42/quiz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(limiter.seen) != 1 || limiter.seen[0] != "p-42|quiz_complete" {
		t.Fatalf("limiter saw %v", limiter.seen)
	}
}

func TestRateLimitRejects(t *testing.T) {
	resp, err := newApp(&stubLimiter{allowed: false}).Test(httptest.NewRequest("POST", "/p/p-42/quiz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	retryAfter, err := strconv.Atoi(resp.Header.Get(fiber.HeaderRetryAfter))
	if err != nil {
		t.Fatalf("Retry-After = %q, want delta seconds", resp.Header.Get(fiber.HeaderRetryAfter))
	}
	if retryAfter < 1 || retryAfter > 60 {
		t.Fatalf("Retry-After = %d, want between 1 and 60 seconds", retryAfter)
	}
}

func TestRetryAfterSecondsIsDelta(t *testing.T) {
	if got := retryAfterSeconds(time.Now().Add(30 * time.Second)); got < 29 || got > 30 {
		t.Fatalf("retryAfterSeconds(+30s) = %d, want 30", got)
	}
	if got := retryAfterSeconds(time.Now().Add(-time.Minute)); got != 1 {
		t.Fatalf("retryAfterSeconds(past) = %d, want 1", got)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	limiter := &stubLimiter{allowed: false, err: errors.New("redis down")}
	resp, err := newApp(limiter).Test(httptest.NewRequest("POST", "/p/p-42/quiz", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200 when limiter errors", resp.StatusCode)
	}
}
