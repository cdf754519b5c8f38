package services

import (
	"context"
	"sync"

	appContext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/engage_api/clock"
	"github.com/lac-hong-legacy/engage_api/model"
	log "github.com/sirupsen/logrus"
)

// IdentityCache remembers a tab's identity across process restarts.
type IdentityCache interface {
	SaveTabIdentity(ctx context.Context, tabKey string, identity Identity) error
	LoadTabIdentity(ctx context.Context, tabKey string) (*Identity, error)
	ClearTabIdentity(ctx context.Context, tabKey string) error
}

// SessionService keeps one SessionTracker per participant tab.
type SessionService struct {
	appContext.DefaultService

	store SessionStore
	cache IdentityCache
	clock clock.Clock

	mu       sync.Mutex
	trackers map[string]*SessionTracker
	// evictions counts trackers dropped from the map. A restore that saw a
	// different count is stale and is loaded again.
	evictions uint64
	draining  sync.WaitGroup
}

const SESSION_SVC = "session_svc"

func (svc SessionService) Id() string {
	return SESSION_SVC
}

func (svc *SessionService) Start() error {
	svc.store = svc.Service(STORE_SVC).(*StoreService).Sessions()
	if redisSvc, ok := svc.Service(REDIS_SVC).(*RedisService); ok && redisSvc != nil {
		svc.cache = redisSvc
	}
	svc.clock = clock.System{}
	svc.trackers = map[string]*SessionTracker{}
	return nil
}

func (svc *SessionService) Shutdown() {
	svc.mu.Lock()
	trackers := make([]*SessionTracker, 0, len(svc.trackers))
	for _, t := range svc.trackers {
		trackers = append(trackers, t)
	}
	svc.mu.Unlock()

	for _, t := range trackers {
		t.Wait()
	}
	svc.draining.Wait()
}

// NewSessionService builds a registry. cache may be nil.
func NewSessionService(store SessionStore, cache IdentityCache, clk clock.Clock) *SessionService {
	return &SessionService{
		store:    store,
		cache:    cache,
		clock:    clk,
		trackers: map[string]*SessionTracker{},
	}
}

func tabKey(participantID, tabID string) string {
	return participantID + ":" + tabID
}

// Tracker returns the tracker for a participant's tab, creating it and
// restoring any cached identity on first use. A new tracker is restored
// before it is published, so a login or logout made through the published
// tracker is never overwritten by the restore.
func (svc *SessionService) Tracker(ctx context.Context, participantID, tabID string) *SessionTracker {
	key := tabKey(participantID, tabID)

	for {
		svc.mu.Lock()
		if t, ok := svc.trackers[key]; ok {
			svc.mu.Unlock()
			return t
		}
		seen := svc.evictions
		svc.mu.Unlock()

		t := NewSessionTracker(tabID, svc.store, svc.clock)
		svc.restore(ctx, t, participantID, key)

		svc.mu.Lock()
		if existing, ok := svc.trackers[key]; ok {
			svc.mu.Unlock()
			return existing
		}
		if svc.evictions != seen {
			svc.mu.Unlock()
			continue
		}
		svc.trackers[key] = t
		svc.mu.Unlock()
		return t
	}
}

func (svc *SessionService) restore(ctx context.Context, t *SessionTracker, participantID, key string) {
	if svc.cache == nil {
		return
	}
	identity, err := svc.cache.LoadTabIdentity(ctx, key)
	if err != nil {
		log.WithFields(log.Fields{"participant_id": participantID, "tab_id": t.TabID()}).
			WithError(err).Debug("Tab identity not restored")
		return
	}
	if identity != nil && identity.ParticipantID == participantID {
		t.Restore(*identity)
	}
}

// evict drops t from the map if it is still the tracker registered for key.
// With idleOnly set, a tracker that has opened a new session is kept. Any
// restore still in flight is invalidated either way.
func (svc *SessionService) evict(key string, t *SessionTracker, idleOnly bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.evictions++
	if svc.trackers[key] != t {
		return
	}
	if idleOnly && t.CurrentSessionID() != "" {
		return
	}
	delete(svc.trackers, key)
}

// Login opens a session for the tab and caches the identity for auto-restart.
func (svc *SessionService) Login(ctx context.Context, tabID string, identity Identity) *model.Session {
	t := svc.Tracker(ctx, identity.ParticipantID, tabID)
	session := t.StartSession(ctx, identity)

	if svc.cache != nil {
		if err := svc.cache.SaveTabIdentity(ctx, tabKey(identity.ParticipantID, tabID), identity); err != nil {
			log.WithFields(log.Fields{"participant_id": identity.ParticipantID, "tab_id": tabID}).
				WithError(err).Warn("Failed to cache tab identity")
		}
	}
	return session
}

func (svc *SessionService) Logout(ctx context.Context, participantID, tabID string) *model.Session {
	key := tabKey(participantID, tabID)
	t := svc.Tracker(ctx, participantID, tabID)
	closed := t.OnLogout(ctx)

	if svc.cache != nil {
		if err := svc.cache.ClearTabIdentity(ctx, key); err != nil {
			log.WithFields(log.Fields{"participant_id": participantID, "tab_id": tabID}).
				WithError(err).Warn("Failed to clear tab identity")
		}
	}
	svc.evict(key, t, false)
	return closed
}

func (svc *SessionService) TabHidden(ctx context.Context, participantID, tabID string) *model.Session {
	return svc.Tracker(ctx, participantID, tabID).OnTabHidden(ctx)
}

func (svc *SessionService) TabVisible(ctx context.Context, participantID, tabID string) *model.Session {
	return svc.Tracker(ctx, participantID, tabID).OnTabVisible(ctx)
}

// BeforeUnload closes the tab's session and drops its tracker once the
// background close has been written. A cached identity is kept, so the tab
// can still be restored.
func (svc *SessionService) BeforeUnload(ctx context.Context, participantID, tabID string) *model.Session {
	key := tabKey(participantID, tabID)
	t := svc.Tracker(ctx, participantID, tabID)
	closed := t.OnBeforeUnload()

	svc.draining.Add(1)
	go func() {
		defer svc.draining.Done()
		t.Wait()
		svc.evict(key, t, true)
	}()
	return closed
}

func (svc *SessionService) PageHide(ctx context.Context, participantID, tabID string) *model.Session {
	return svc.Tracker(ctx, participantID, tabID).OnPageHide()
}

// CurrentSessionID returns the tab's open session id, or "" if the tab is
// unknown or closed.
func (svc *SessionService) CurrentSessionID(participantID, tabID string) string {
	if tabID == "" {
		return ""
	}
	svc.mu.Lock()
	t, ok := svc.trackers[tabKey(participantID, tabID)]
	svc.mu.Unlock()
	if !ok {
		return ""
	}
	return t.CurrentSessionID()
}

// CachedCondition returns the condition remembered by the tab, if any.
func (svc *SessionService) CachedCondition(participantID, tabID string) string {
	svc.mu.Lock()
	t, ok := svc.trackers[tabKey(participantID, tabID)]
	svc.mu.Unlock()
	if !ok {
		return ""
	}
	if identity := t.Identity(); identity != nil {
		return identity.Condition
	}
	return ""
}

// ListOpenSessions returns every open session the store has for the
// participant, across all tabs and devices.
func (svc *SessionService) ListOpenSessions(ctx context.Context, participantID string) ([]model.Session, error) {
	return svc.store.ListOpenSessions(ctx, participantID)
}
