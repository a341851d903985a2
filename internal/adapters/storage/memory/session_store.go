package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PabloGalante/farum-counselor/internal/domain"
	"github.com/PabloGalante/farum-counselor/internal/observability"
)

type sessionEntry struct {
	userID domain.UserID

	// lastActive is unix nanos of the last create or update.
	lastActive atomic.Int64

	mu      sync.Mutex
	session *domain.SessionContext
}

// SessionStore keeps session contexts in process memory. The map is guarded by
// one RWMutex and every session has its own mutex, so a slow update on one
// session never blocks the others.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.SessionID]*sessionEntry
	active   map[domain.UserID]domain.SessionID

	now func() time.Time
}

type SessionStoreOption func(*SessionStore)

// WithStoreClock replaces the clock used to track activity.
func WithStoreClock(now func() time.Time) SessionStoreOption {
	return func(s *SessionStore) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSessionStore(opts ...SessionStoreOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[domain.SessionID]*sessionEntry),
		active:   make(map[domain.UserID]domain.SessionID),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *SessionStore) Create(session *domain.SessionContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("create %s: %w", session.ID, domain.ErrSessionExists)
	}

	e := &sessionEntry{userID: session.UserID, session: session.Clone()}
	e.lastActive.Store(s.now().UnixNano())
	s.sessions[session.ID] = e
	if session.UserID != "" && session.Status == domain.SessionActive {
		s.active[session.UserID] = session.ID
	}
	return nil
}

// Get returns a copy of the session.
func (s *SessionStore) Get(id domain.SessionID) (*domain.SessionContext, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone(), nil
}

// Update runs fn on the stored session under the session lock. Changes made by
// fn are kept only when it returns nil.
func (s *SessionStore) Update(id domain.SessionID, fn func(*domain.SessionContext) error) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastActive.Store(s.now().UnixNano())

	working := e.session.Clone()
	if err := fn(working); err != nil {
		return err
	}
	e.session = working
	e.lastActive.Store(s.now().UnixNano())

	s.mu.Lock()
	if e.userID != "" && s.sessions[id] == e {
		if working.Status == domain.SessionActive {
			s.active[e.userID] = id
		} else if s.active[e.userID] == id {
			delete(s.active, e.userID)
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *SessionStore) Delete(id domain.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return fmt.Errorf("delete %s: %w", id, domain.ErrSessionNotFound)
	}
	s.remove(id, e)
	return nil
}

// ActiveForUser returns the user's active session, if any.
func (s *SessionStore) ActiveForUser(userID domain.UserID) (domain.SessionID, bool) {
	if userID == "" {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.active[userID]
	return id, ok
}

// Len reports how many sessions are held.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictExpired drops sessions with no activity for idle, and ended sessions
// once endedGrace has passed since they ended. Anonymous sessions fall under
// the idle rule like any other. Sessions in the middle of an
// update are skipped. A non-positive duration disables that rule. It returns
// the number of sessions removed.
func (s *SessionStore) EvictExpired(idle, endedGrace time.Duration) int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.sessions {
		if !e.mu.TryLock() {
			continue
		}
		if expired(e, now, idle, endedGrace) {
			s.remove(id, e)
			evicted++
		}
		e.mu.Unlock()
	}
	return evicted
}

// RunJanitor calls EvictExpired every interval until ctx is done.
func (s *SessionStore) RunJanitor(ctx context.Context, interval, idle, endedGrace time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := observability.LoggerFromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.EvictExpired(idle, endedGrace); n > 0 {
				log.Info("evicted expired sessions", "count", n, "remaining", s.Len())
			}
		}
	}
}

// expired is called with e.mu held. An ended session's last activity is the
// update that ended it.
func expired(e *sessionEntry, now time.Time, idle, endedGrace time.Duration) bool {
	quiet := now.Sub(time.Unix(0, e.lastActive.Load()))
	if e.session.Status == domain.SessionEnded && endedGrace > 0 && quiet >= endedGrace {
		return true
	}
	return idle > 0 && quiet >= idle
}

// remove is called with s.mu held.
func (s *SessionStore) remove(id domain.SessionID, e *sessionEntry) {
	delete(s.sessions, id)
	if e.userID != "" && s.active[e.userID] == id {
		delete(s.active, e.userID)
	}
}

func (s *SessionStore) entry(id domain.SessionID) (*sessionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, domain.ErrSessionNotFound)
	}
	return e, nil
}
