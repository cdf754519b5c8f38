package services

import (
	"context"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/dto"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

type WindowCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

type RateLimitConfig struct {
	MaxRequests int
	WindowSize  time.Duration
}

// RateLimitService enforces fixed-window request limits per participant and
// endpoint type. When the counter backend fails the request is allowed.
type RateLimitService struct {
	appContext.DefaultService

	counter WindowCounter
	configs map[string]RateLimitConfig
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = DefaultRateLimits()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.counter = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

func NewRateLimitService(counter WindowCounter, configs map[string]RateLimitConfig) *RateLimitService {
	if configs == nil {
		configs = DefaultRateLimits()
	}
	return &RateLimitService{counter: counter, configs: configs}
}

func DefaultRateLimits() map[string]RateLimitConfig {
	return map[string]RateLimitConfig{
		shared.EndpointQuizComplete:  {MaxRequests: 30, WindowSize: time.Minute},
		shared.EndpointAnswerJudged:  {MaxRequests: 240, WindowSize: time.Minute},
		shared.EndpointSessionSignal: {MaxRequests: 120, WindowSize: time.Minute},
	}
}

func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	config, ok := svc.configs[endpointType]
	if !ok {
		return true, &dto.RateLimitInfo{Allowed: true}, nil
	}

	count, ttl, err := svc.counter.IncrWindow(ctx, endpointType+":"+identifier, config.WindowSize)
	if err != nil {
		log.WithFields(log.Fields{
			"identifier":    identifier,
			"endpoint_type": endpointType,
		}).WithError(err).Warn("Rate limit counter unavailable, allowing request")
		return true, &dto.RateLimitInfo{Allowed: true}, err
	}

	if ttl <= 0 {
		ttl = config.WindowSize
	}
	resetTime := time.Now().Add(ttl)

	remaining := config.MaxRequests - int(count)
	if remaining < 0 {
		remaining = 0
	}

	if int(count) > config.MaxRequests {
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			EndpointType: endpointType,
			Limit:        config.MaxRequests,
			Remaining:    0,
			ResetTime:    &resetTime,
			BlockedUntil: &resetTime,
		}, nil
	}

	return true, &dto.RateLimitInfo{
		Allowed:      true,
		EndpointType: endpointType,
		Limit:        config.MaxRequests,
		Remaining:    remaining,
		ResetTime:    &resetTime,
	}, nil
}
