package services

import (
	"context"
	"sync"
	"time"

	"github.com/lac-hong-legacy/engage_api/clock"
	"github.com/lac-hong-legacy/engage_api/model"
	"github.com/lac-hong-legacy/engage_api/shared"
	log "github.com/sirupsen/logrus"
)

// Identity is what a tab remembers about who is logged in, so a session can
// be reopened when the tab becomes visible again.
type Identity struct {
	ParticipantID string `json:"participant_id"`
	Condition     string `json:"condition"`
	DayNumber     int    `json:"day_number"`
}

// SessionTracker is the session handle for a single tab. It is Closed while
// current is nil and Open otherwise. Close always completes before the next
// open on the same tracker.
type SessionTracker struct {
	mu sync.Mutex

	tabID    string
	store    SessionStore
	clock    clock.Clock
	identity *Identity
	current  *model.Session

	detachedTimeout time.Duration
	pending         sync.WaitGroup
}

func NewSessionTracker(tabID string, store SessionStore, clk clock.Clock) *SessionTracker {
	return &SessionTracker{
		tabID:           tabID,
		store:           store,
		clock:           clk,
		detachedTimeout: 5 * time.Second,
	}
}

func (t *SessionTracker) TabID() string {
	return t.tabID
}

// Current returns a copy of the open session, or nil when closed.
func (t *SessionTracker) Current() *model.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	s := *t.current
	return &s
}

// CurrentSessionID returns the open session id or "".
func (t *SessionTracker) CurrentSessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return ""
	}
	return t.current.ID
}

func (t *SessionTracker) Identity() *Identity {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.identity == nil {
		return nil
	}
	id := *t.identity
	return &id
}

// Restore sets the cached identity without opening a session.
func (t *SessionTracker) Restore(identity Identity) {
	t.mu.Lock()
	t.identity = &identity
	t.mu.Unlock()
}

// StartSession opens a session for identity, closing any session this tab
// still has open first. Returns nil if the store rejected the new session.
func (t *SessionTracker) StartSession(ctx context.Context, identity Identity) *model.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startLocked(ctx, identity)
}

// startLocked is StartSession with mu already held.
func (t *SessionTracker) startLocked(ctx context.Context, identity Identity) *model.Session {
	if t.current != nil {
		t.closeLocked(ctx, shared.EndReasonNormal)
	}
	t.identity = &identity

	session := &model.Session{
		ParticipantID: identity.ParticipantID,
		TabID:         t.tabID,
		Condition:     identity.Condition,
		DayNumber:     identity.DayNumber,
		StartedAt:     t.clock.Now().UTC(),
	}
	if err := t.store.CreateSession(ctx, session); err != nil {
		swallowedWritesTotal.WithLabelValues("start_session").Inc()
		log.WithFields(log.Fields{
			"participant_id": identity.ParticipantID,
			"tab_id":         t.tabID,
		}).WithError(err).Warn("Failed to open session")
		return nil
	}

	t.current = session
	sessionsOpenedTotal.Inc()

	open, err := t.store.ListOpenSessions(ctx, identity.ParticipantID)
	if err == nil && len(open) > 1 {
		concurrentSessionsTotal.Inc()
		log.WithFields(log.Fields{
			"participant_id": identity.ParticipantID,
			"tab_id":         t.tabID,
			"open_sessions":  len(open),
		}).Warn("Participant has more than one open session")
	}

	s := *session
	return &s
}

// EndSession closes the open session with reason. With no open session it
// does nothing and returns nil.
func (t *SessionTracker) EndSession(ctx context.Context, reason string) *model.Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closeLocked(ctx, reason)
}

func (t *SessionTracker) closeLocked(ctx context.Context, reason string) *model.Session {
	if t.current == nil {
		return nil
	}

	closed := t.detach(reason)
	if _, err := t.store.CloseSession(ctx, closed.ID, *closed.EndedAt, *closed.DurationSeconds, reason); err != nil {
		swallowedWritesTotal.WithLabelValues("end_session").Inc()
		log.WithFields(log.Fields{
			"participant_id": closed.ParticipantID,
			"session_id":     closed.ID,
			"reason":         reason,
		}).WithError(err).Warn("Failed to close session")
	}
	return closed
}

// detach clears current and returns the closed copy. Caller holds mu.
func (t *SessionTracker) detach(reason string) *model.Session {
	closed := *t.current
	t.current = nil

	endedAt := t.clock.Now().UTC()
	duration := int64(endedAt.Sub(closed.StartedAt) / time.Second)
	if duration < 0 {
		duration = 0
	}
	closed.EndedAt = &endedAt
	closed.DurationSeconds = &duration
	closed.EndReason = &reason

	sessionsClosedTotal.WithLabelValues(reason).Inc()
	return &closed
}

func (t *SessionTracker) OnTabHidden(ctx context.Context) *model.Session {
	return t.EndSession(ctx, shared.EndReasonTabHidden)
}

// OnTabVisible reopens a session with the cached identity. It does nothing
// after logout or while a session is already open.
func (t *SessionTracker) OnTabVisible(ctx context.Context) *model.Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.identity == nil || t.current != nil {
		return nil
	}
	return t.startLocked(ctx, *t.identity)
}

func (t *SessionTracker) OnBeforeUnload() *model.Session {
	return t.endDetached(shared.EndReasonPageUnload)
}

func (t *SessionTracker) OnPageHide() *model.Session {
	return t.endDetached(shared.EndReasonPageHide)
}

// endDetached closes the session in memory immediately and issues the store
// write without waiting for it. The write may or may not land.
func (t *SessionTracker) endDetached(reason string) *model.Session {
	t.mu.Lock()
	if t.current == nil {
		t.mu.Unlock()
		return nil
	}
	closed := t.detach(reason)
	t.pending.Add(1)
	t.mu.Unlock()

	go func() {
		defer t.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), t.detachedTimeout)
		defer cancel()

		if _, err := t.store.CloseSession(ctx, closed.ID, *closed.EndedAt, *closed.DurationSeconds, reason); err != nil {
			swallowedWritesTotal.WithLabelValues("end_session_detached").Inc()
			log.WithFields(log.Fields{
				"participant_id": closed.ParticipantID,
				"session_id":     closed.ID,
				"reason":         reason,
			}).WithError(err).Warn("Detached session close did not land")
		}
	}()

	return closed
}

// OnLogout closes the session and forgets the identity so visibility changes
// no longer reopen one.
func (t *SessionTracker) OnLogout(ctx context.Context) *model.Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	closed := t.closeLocked(ctx, shared.EndReasonLogout)
	t.identity = nil
	return closed
}

// Wait blocks until detached writes issued so far have finished.
func (t *SessionTracker) Wait() {
	t.pending.Wait()
}
