package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"animeplan/pkg/logging"
)

// Registry keeps sessions that outlive a single request, keyed by an opaque
// id and owned by the user that opened them.
type Registry struct {
	agg *Aggregator
	ttl time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(agg *Aggregator, idleTTL time.Duration) *Registry {
	return &Registry{agg: agg, ttl: idleTTL, sessions: map[string]*Session{}}
}

func (r *Registry) Open(ctx context.Context, userID int64) (string, *Session) {
	s := r.agg.Open(ctx, userID)
	id := uuid.NewString()
	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return id, s
}

// Get returns the session if it exists and belongs to userID. A successful
// lookup counts as activity for the idle reaper.
func (r *Registry) Get(id string, userID int64) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok || s.UserID() != userID {
		return nil, ErrNotFound
	}
	s.Touch()
	return s, nil
}

func (r *Registry) Close(id string, userID int64) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if !ok || s.UserID() != userID {
		r.mu.Unlock()
		return ErrNotFound
	}
	delete(r.sessions, id)
	r.mu.Unlock()
	s.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Reap closes sessions idle for longer than the TTL and returns how many
// were closed.
func (r *Registry) Reap() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.agg.opts.Now().Add(-r.ttl)

	var idle []*Session
	r.mu.Lock()
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		logging.Info().Int("count", len(idle)).Msg("[session] reaped idle sessions")
	}
	return len(idle)
}

// Run reaps on a ticker until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.ttl <= 0 {
		return
	}
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Reap()
		}
	}
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = map[string]*Session{}
	r.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}
