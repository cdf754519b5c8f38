package services

import (
	"context"
	"sync"
	"testing"

	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
)

type memoryParticipantCache struct {
	mu    sync.Mutex
	items map[string]model.Participant
	hits  int
}

func (c *memoryParticipantCache) CacheParticipant(_ context.Context, p *model.Participant) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[p.ID] = *p
	return nil
}

func (c *memoryParticipantCache) CachedParticipant(_ context.Context, id string) (*model.Participant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	c.hits++
	return &p, nil
}

func TestParticipantCondition(t *testing.T) {
	ctx := context.Background()
	cache := &memoryParticipantCache{items: map[string]model.Participant{}}
	participants := NewParticipantService(newTestStores(t).Participants(), cache)

	if got, ok := participants.EnrolledCondition(ctx, "unknown"); ok {
		t.Fatalf("unknown participant enrolled as %q", got)
	}

	if err := participants.Enroll(ctx, &model.Participant{ID: "c1", Condition: shared.ConditionControl, DayNumber: 1, EnrolledAt: studyNoon}); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if got, ok := participants.EnrolledCondition(ctx, "c1"); !ok || got != shared.ConditionControl {
		t.Fatalf("condition = %q, %v", got, ok)
	}
	if got, _ := participants.EnrolledCondition(ctx, "c1"); got != shared.ConditionControl || cache.hits != 1 {
		t.Fatalf("second read condition = %q, cache hits = %d", got, cache.hits)
	}

	if err := participants.Enroll(ctx, &model.Participant{ID: "x", Condition: "placebo"}); err == nil {
		t.Fatalf("invalid condition enrolled")
	}
}
