// Package session keeps per-browser page state and address books in memory.
// Sessions expire after a period of inactivity; nothing survives a restart.
package session

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dukerupert/addressbook/internal/addressbook"
	"github.com/dukerupert/addressbook/internal/domain"
	"github.com/dukerupert/addressbook/internal/form"
	"github.com/dukerupert/addressbook/internal/telemetry"
	"github.com/google/uuid"
)

// State is what the page renders for one session.
type State struct {
	Fields     form.Fields
	Candidates []domain.Address
	Error      string
}

// Session is one browser's page state plus its address book.
type Session struct {
	ID   string
	Book addressbook.Book

	// CSRFToken is fixed for the session's lifetime and must accompany
	// every form post.
	CSRFToken string

	mu       sync.Mutex
	state    State
	lastSeen time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Book:      addressbook.NewStore(),
		CSRFToken: uuid.NewString(),
		state:     State{Fields: form.New()},
		lastSeen:  now,
	}
}

// State returns a copy of the current page state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Fields:     s.state.Fields.Clone(),
		Candidates: slices.Clone(s.state.Candidates),
		Error:      s.state.Error,
	}
}

// Update applies fn to the page state under the session lock.
func (s *Session) Update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
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

// Registry owns every live session.
type Registry struct {
	ttl     time.Duration
	now     func() time.Time
	metrics *telemetry.BusinessMetrics

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates a registry whose sessions expire after ttl of inactivity.
// metrics may be nil.
func NewRegistry(ttl time.Duration, metrics *telemetry.BusinessMetrics) *Registry {
	return &Registry{
		ttl:      ttl,
		now:      time.Now,
		metrics:  metrics,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id and marks it as active. A session idle
// for longer than the TTL is dropped on sight, even before the next Sweep.
func (r *Registry) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}

	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	now := r.now()
	if s.idleSince().Before(now.Add(-r.ttl)) {
		r.Delete(id)
		return nil, false
	}

	s.touch(now)
	return s, true
}

// Create starts a new session with a random ID.
func (r *Registry) Create() *Session {
	s := newSession(uuid.New().String(), r.now())

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(n)
	return s
}

// GetOrCreate returns the session for id, creating a fresh one when id is
// unknown or expired. created reports whether a new session was made.
func (r *Registry) GetOrCreate(id string) (s *Session, created bool) {
	if s, ok := r.Get(id); ok {
		return s, false
	}
	return r.Create(), true
}

// Delete drops a session and its address book.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(n)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetActiveSessions(n)
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := r.Sweep(); removed > 0 {
				logger.Debug("expired sessions removed", "count", removed, "remaining", r.Len())
			}
		case <-ctx.Done():
			return nil
		}
	}
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, or nil.
func FromContext(ctx context.Context) *Session {
	s, _ := ctx.Value(contextKey{}).(*Session)
	return s
}
