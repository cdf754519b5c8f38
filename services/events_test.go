package services

import (
	"context"
	"sync"
	"testing"

	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
)

// gatedEventStore holds each append until release is closed.
type gatedEventStore struct {
	entered chan struct{}
	release chan struct{}

	mu     sync.Mutex
	events []model.Event
}

func newGatedEventStore() *gatedEventStore {
	return &gatedEventStore{entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (s *gatedEventStore) AppendEvent(_ context.Context, event *model.Event) error {
	s.entered <- struct{}{}
	<-s.release
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *event)
	return nil
}

func (s *gatedEventStore) ListEvents(context.Context, string) ([]model.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Event(nil), s.events...), nil
}

func TestEventRecordNeverBlocks(t *testing.T) {
	store := newGatedEventStore()
	events := NewEventService(store, newManualClock(), 1)

	events.Record("p1", shared.EventLogin, nil, "", "")
	<-store.entered // the worker holds the first event

	events.Record("p1", shared.EventQuizCompleted, map[string]interface{}{"unit_id": "unit-1"}, "s1", "")
	events.Record("p1", shared.EventLogout, nil, "", "") // queue full, dropped

	close(store.release)
	events.Shutdown()

	got, _ := store.ListEvents(context.Background(), "p1")
	if len(got) != 2 {
		t.Fatalf("recorded %d events, want 2", len(got))
	}
	if got[0].Type != shared.EventLogin || got[1].Type != shared.EventQuizCompleted {
		t.Fatalf("event order = %s, %s", got[0].Type, got[1].Type)
	}
	if got[1].SessionID == nil || *got[1].SessionID != "s1" || got[0].SessionID != nil {
		t.Fatalf("session ids not carried through")
	}
	if len(got[1].Metadata) == 0 {
		t.Fatalf("metadata dropped")
	}

	events.Record("p1", shared.EventLogin, nil, "", "")
	events.Shutdown()
}

func TestEventsPersistThroughStore(t *testing.T) {
	ctx := context.Background()
	stores := newTestStores(t)
	events := NewEventService(stores.Events(), newManualClock(), 8)

	events.Record("p1", shared.EventVideoStarted, map[string]interface{}{"unit_id": "unit-2"}, "", "run-1")
	events.Record("p2", shared.EventLogin, nil, "", "")
	events.Shutdown()

	got, err := stores.Events().ListEvents(ctx, "p1")
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(got) != 1 || got[0].VideoRunID == nil || *got[0].VideoRunID != "run-1" {
		t.Fatalf("events = %+v", got)
	}
	if !got[0].Timestamp.Equal(studyNoon) {
		t.Fatalf("timestamp = %v, want %v", got[0].Timestamp, studyNoon)
	}
}
