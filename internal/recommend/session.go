package recommend

import (
	"context"
	"sync"
	"time"

	"github.com/justestif/go-vibecast/internal/mood"
	"github.com/justestif/go-vibecast/internal/rotation"
)

// Rotation bounds.
const (
	MaxMoviePages       = 5
	PlaylistSearchLimit = 10
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = 24 * time.Hour

// Session is the per-user recommendation state: rotation cursors, the
// most recent result, and the handle of the fetch in flight.
type Session struct {
	key          string
	moviePages   *rotation.Index
	playlists    *rotation.Index
	affirmations *rotation.Index

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	current    *Result
	lastSeen   time.Time
}

// NewSession creates an isolated session with fresh cursors.
func NewSession(key string) *Session {
	maxAffirmations := 1
	for _, m := range mood.All() {
		maxAffirmations = max(maxAffirmations, mood.AffirmationCount(m))
	}
	return &Session{
		key:          key,
		moviePages:   rotation.New(MaxMoviePages),
		playlists:    rotation.New(PlaylistSearchLimit),
		affirmations: rotation.New(maxAffirmations),
		lastSeen:     time.Now(),
	}
}

// Key returns the identifier the session was created with.
func (s *Session) Key() string {
	return s.key
}

// Current returns the latest completed result, or nil.
func (s *Session) Current() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Clear cancels any fetch in flight and drops the current result.
// Rotation cursors are kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.generation++
	s.current = nil
}

// begin starts a new fetch generation, cancelling the previous one.
func (s *Session) begin(parent context.Context, now time.Time) (context.Context, uint64) {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.generation++
	s.cancel = cancel
	s.lastSeen = now
	return ctx, s.generation
}

// finish ends generation gen. Only if gen is still the newest fetch does it
// run commit, store a non-nil r and report true. commit runs under the
// session lock so a newer fetch never reads half-moved cursors.
func (s *Session) finish(gen uint64, r *Result, commit func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if commit != nil {
		commit()
	}
	if r != nil {
		s.current = r
	}
	return true
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Sessions holds one Session per user in memory.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessions creates an empty registry that expires sessions idle for ttl.
func NewSessions(ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the session for key, creating it if missing or expired.
func (s *Sessions) Get(key string) *Session {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if ok && now.Sub(sess.idleSince()) > s.ttl {
		sess.Clear()
		ok = false
	}
	if !ok {
		sess = NewSession(key)
		s.sessions[key] = sess
	}
	sess.touch(now)
	return sess
}

// Lookup returns the live session for key without creating one.
func (s *Sessions) Lookup(key string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if !ok || s.now().Sub(sess.idleSince()) > s.ttl {
		return nil, false
	}
	return sess, true
}

// Delete removes the session for key and cancels its fetch in flight.
func (s *Sessions) Delete(key string) {
	s.mu.Lock()
	sess, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()

	if ok {
		sess.Clear()
	}
}

// Len returns the number of sessions held.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Prune removes expired sessions and returns how many were removed.
func (s *Sessions) Prune() int {
	now := s.now()

	s.mu.Lock()
	var expired []*Session
	for key, sess := range s.sessions {
		if now.Sub(sess.idleSince()) > s.ttl {
			expired = append(expired, sess)
			delete(s.sessions, key)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.Clear()
	}
	return len(expired)
}

// Run prunes expired sessions every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Prune()
		}
	}
}
