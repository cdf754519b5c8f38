package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lac-hong-legacy/engage_api/clock"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// noon on 2026-03-10 in the study's reference zone
var studyNoon = time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

func newTestStores(t *testing.T) *StoreService {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStoreService(db)
}

func newTestCatalog(t *testing.T, units ...string) *CatalogService {
	t.Helper()
	if len(units) == 0 {
		units = []string{"unit-1", "unit-2", "unit-3"}
	}
	catalog, err := NewCatalogService(units)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return catalog
}

// flakyGamificationStore fails the next conflicts updates with ErrConflict
// and every read while readErr is set.
type flakyGamificationStore struct {
	GamificationStore

	mu        sync.Mutex
	conflicts int
	readErr   error
	updates   int
}

func (s *flakyGamificationStore) GetGamification(ctx context.Context, participantID string) (*model.GamificationRecord, error) {
	s.mu.Lock()
	err := s.readErr
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return s.GamificationStore.GetGamification(ctx, participantID)
}

func (s *flakyGamificationStore) UpdateGamification(ctx context.Context, rec *model.GamificationRecord, expected int) error {
	s.mu.Lock()
	s.updates++
	if s.conflicts > 0 {
		s.conflicts--
		s.mu.Unlock()
		return shared.ErrConflict
	}
	s.mu.Unlock()
	return s.GamificationStore.UpdateGamification(ctx, rec, expected)
}

// failingSessionStore rejects every write.
type failingSessionStore struct {
	SessionStore
}

func (failingSessionStore) CreateSession(context.Context, *model.Session) error {
	return shared.ErrStoreUnavailable
}

func (failingSessionStore) CloseSession(context.Context, string, time.Time, int64, string) (bool, error) {
	return false, shared.ErrStoreUnavailable
}

type memoryIdentityCache struct {
	mu    sync.Mutex
	items map[string]Identity
}

func newMemoryIdentityCache() *memoryIdentityCache {
	return &memoryIdentityCache{items: map[string]Identity{}}
}

func (c *memoryIdentityCache) SaveTabIdentity(_ context.Context, key string, identity Identity) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = identity
	return nil
}

func (c *memoryIdentityCache) LoadTabIdentity(_ context.Context, key string) (*Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	identity, ok := c.items[key]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

func (c *memoryIdentityCache) ClearTabIdentity(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func newManualClock() *clock.Manual {
	return clock.NewManual(studyNoon)
}

// gatedSessionStore parks the next CreateSession after arm until release is
// closed.
type gatedSessionStore struct {
	SessionStore

	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	release chan struct{}
}

func newGatedSessionStore(inner SessionStore) *gatedSessionStore {
	return &gatedSessionStore{SessionStore: inner, entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (s *gatedSessionStore) arm() {
	s.mu.Lock()
	s.armed = true
	s.mu.Unlock()
}

func (s *gatedSessionStore) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	armed := s.armed
	s.armed = false
	s.mu.Unlock()
	if armed {
		s.entered <- struct{}{}
		<-s.release
	}
	return s.SessionStore.CreateSession(ctx, session)
}

// gatedIdentityCache reads the next identity after arm, then parks until
// release is closed before returning it.
type gatedIdentityCache struct {
	*memoryIdentityCache

	mu      sync.Mutex
	armed   bool
	entered chan struct{}
	release chan struct{}
}

func newGatedIdentityCache() *gatedIdentityCache {
	return &gatedIdentityCache{memoryIdentityCache: newMemoryIdentityCache(), entered: make(chan struct{}, 1), release: make(chan struct{})}
}

func (c *gatedIdentityCache) arm() {
	c.mu.Lock()
	c.armed = true
	c.mu.Unlock()
}

func (c *gatedIdentityCache) LoadTabIdentity(ctx context.Context, key string) (*Identity, error) {
	identity, err := c.memoryIdentityCache.LoadTabIdentity(ctx, key)
	c.mu.Lock()
	armed := c.armed
	c.armed = false
	c.mu.Unlock()
	if armed {
		c.entered <- struct{}{}
		<-c.release
	}
	return identity, err
}
