package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type RedisService struct {
	appContext.DefaultService
	redis *redis.Client

	identityTTL    time.Duration
	participantTTL time.Duration
}

const REDIS_SVC = "redis_svc"

const (
	tabIdentityPrefix = "engage:tab:"
	participantPrefix = "engage:participant:"
	rateLimitPrefix   = "engage:ratelimit:"
)

var errRedisNotInitialized = errors.New("redis client not initialized")

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	svc.redis = redis.NewClient(&redis.Options{
		Addr:     shared.GetEnv("REDIS_ADDR", "localhost:6379"),
		Password: shared.GetEnv("REDIS_PASSWORD", ""),
		DB:       shared.GetEnvInt("REDIS_DB", 0),
	})
	svc.identityTTL = 12 * time.Hour
	svc.participantTTL = 10 * time.Minute
	return svc.DefaultService.Configure(ctx)
}

// Start pings Redis. An unreachable Redis is not fatal: every caller has a
// fallback when the cache misses.
func (svc *RedisService) Start() error {
	if svc.redis == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := svc.redis.Ping(ctx).Result(); err != nil {
		log.WithError(err).Warn("Redis unreachable, running without cache")
	}
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

// NewRedisService wraps an existing client.
func NewRedisService(client *redis.Client) *RedisService {
	return &RedisService{
		redis:          client,
		identityTTL:    12 * time.Hour,
		participantTTL: 10 * time.Minute,
	}
}

func (svc *RedisService) setJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}
	data, err := shared.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return svc.redis.Set(ctx, key, data, expiration).Err()
}

// getJSON decodes key into dest. Returns false on a cache miss.
func (svc *RedisService) getJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if svc.redis == nil {
		return false, errRedisNotInitialized
	}
	raw, err := svc.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, shared.Unmarshal(raw, dest)
}

func (svc *RedisService) SaveTabIdentity(ctx context.Context, tabKey string, identity Identity) error {
	return svc.setJSON(ctx, tabIdentityPrefix+tabKey, identity, svc.identityTTL)
}

func (svc *RedisService) LoadTabIdentity(ctx context.Context, tabKey string) (*Identity, error) {
	var identity Identity
	found, err := svc.getJSON(ctx, tabIdentityPrefix+tabKey, &identity)
	if err != nil || !found {
		return nil, err
	}
	return &identity, nil
}

func (svc *RedisService) ClearTabIdentity(ctx context.Context, tabKey string) error {
	if svc.redis == nil {
		return errRedisNotInitialized
	}
	return svc.redis.Del(ctx, tabIdentityPrefix+tabKey).Err()
}

func (svc *RedisService) CacheParticipant(ctx context.Context, p *model.Participant) error {
	return svc.setJSON(ctx, participantPrefix+p.ID, p, svc.participantTTL)
}

func (svc *RedisService) CachedParticipant(ctx context.Context, id string) (*model.Participant, error) {
	var p model.Participant
	found, err := svc.getJSON(ctx, participantPrefix+id, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// IncrWindow increments a fixed-window counter, starting the window's expiry
// on the first hit. Returns the count so far and the time left in the window.
func (svc *RedisService) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if svc.redis == nil {
		return 0, 0, errRedisNotInitialized
	}

	key = rateLimitPrefix + key
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := svc.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return incr.Val(), ttl.Val(), nil
}
