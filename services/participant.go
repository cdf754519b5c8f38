package services

import (
	"context"
	"errors"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

type ParticipantCache interface {
	CacheParticipant(ctx context.Context, p *model.Participant) error
	CachedParticipant(ctx context.Context, id string) (*model.Participant, error)
}

// ParticipantService reads enrolled participants, caching them in Redis.
type ParticipantService struct {
	appContext.DefaultService

	store ParticipantStore
	cache ParticipantCache
}

const PARTICIPANT_SVC = "participant_svc"

func (svc ParticipantService) Id() string {
	return PARTICIPANT_SVC
}

func (svc *ParticipantService) Start() error {
	svc.store = svc.Service(STORE_SVC).(*StoreService).Participants()
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok && redisSvc != nil {
		svc.cache = redisSvc
	}
	return nil
}

func NewParticipantService(store ParticipantStore, cache ParticipantCache) *ParticipantService {
	return &ParticipantService{store: store, cache: cache}
}

func (svc *ParticipantService) Get(ctx context.Context, id string) (*model.Participant, error) {
	if svc.cache != nil {
		if p, err := svc.cache.CachedParticipant(ctx, id); err == nil && p != nil {
			return p, nil
		}
	}

	p, err := svc.store.GetParticipant(ctx, id)
	if err != nil {
		return nil, err
	}

	if svc.cache != nil {
		if err := svc.cache.CacheParticipant(ctx, p); err != nil {
			log.WithFields(log.Fields{"participant_id": id}).WithError(err).Debug("Participant not cached")
		}
	}
	return p, nil
}

// EnrolledCondition returns the participant's enrolled study condition. The
// second result is false for unknown participants, unreadable stores and
// records holding an unrecognised condition.
func (svc *ParticipantService) EnrolledCondition(ctx context.Context, id string) (string, bool) {
	p, err := svc.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			log.WithFields(log.Fields{"participant_id": id}).WithError(err).Warn("Participant read failed")
		}
		return "", false
	}
	if !shared.IsValidCondition(p.Condition) {
		return "", false
	}
	return p.Condition, true
}

func (svc *ParticipantService) Enroll(ctx context.Context, p *model.Participant) error {
	if !shared.IsValidCondition(p.Condition) {
		return shared.NewBadRequestError(nil, "Invalid condition "+p.Condition)
	}
	return svc.store.UpsertParticipant(ctx, p)
}
