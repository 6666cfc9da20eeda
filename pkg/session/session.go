package session

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"animeplan/pkg/logging"
	"animeplan/pkg/metrics"
	"animeplan/pkg/shikimori"
)

type actionKind string

const (
	actionSearch actionKind = "search"
	actionAdd    actionKind = "add"
	actionRemove actionKind = "remove"
	actionToggle actionKind = "toggle"
)

type result struct {
	view View
	err  error
}

type action struct {
	ctx   context.Context
	kind  actionKind
	value string
	reply chan result
}

// Session holds one user's view. Actions run one at a time on a dedicated
// goroutine in the order they were submitted.
type Session struct {
	agg    *Aggregator
	userID int64

	actions chan action
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu         sync.RWMutex
	view       View
	state      State
	lastActive time.Time
}

func newSession(a *Aggregator, userID int64) *Session {
	s := &Session{
		agg:        a,
		userID:     userID,
		actions:    make(chan action),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		state:      StateInitializing,
		lastActive: a.opts.Now(),
	}
	metrics.SessionsActive.Inc()
	go s.loop()
	return s
}

func (s *Session) UserID() int64 { return s.userID }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// View returns a snapshot of the current view.
func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.view.clone()
	v.State = s.state.String()
	return v
}

// Touch marks the session as in use without running an action.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = s.agg.opts.Now()
	s.mu.Unlock()
}

func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// Search looks up query in the catalog and, on a match, asks for a
// description. A miss or a failed lookup is recorded in the view's search
// slot, not returned as an error.
func (s *Session) Search(ctx context.Context, query string) (View, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return View{}, ErrEmptyQuery
	}
	return s.submit(ctx, actionSearch, q)
}

func (s *Session) Add(ctx context.Context, title string) (View, error) {
	return s.mutate(ctx, actionAdd, title)
}

func (s *Session) Remove(ctx context.Context, title string) (View, error) {
	return s.mutate(ctx, actionRemove, title)
}

func (s *Session) Toggle(ctx context.Context, title string) (View, error) {
	return s.mutate(ctx, actionToggle, title)
}

func (s *Session) mutate(ctx context.Context, kind actionKind, title string) (View, error) {
	t := strings.TrimSpace(title)
	if t == "" {
		return View{}, ErrEmptyTitle
	}
	return s.submit(ctx, kind, t)
}

// Close stops the action loop after any in-flight action. Safe to call more
// than once.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
		<-s.stopped
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()
		metrics.SessionsActive.Dec()
		logging.Info().Int64("user_id", s.userID).Msg("[session] closed")
	})
}

func (s *Session) submit(ctx context.Context, kind actionKind, value string) (View, error) {
	a := action{ctx: ctx, kind: kind, value: value, reply: make(chan result, 1)}
	select {
	case s.actions <- a:
	case <-s.done:
		metrics.SessionActions.WithLabelValues(string(kind), "rejected").Inc()
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
	r := <-a.reply
	return r.view, r.err
}

func (s *Session) loop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.done:
			return
		case a := <-s.actions:
			select {
			case <-s.done:
				a.reply <- result{err: ErrClosed}
				return
			default:
			}
			v, err := s.apply(a)
			a.reply <- result{view: v, err: err}
		}
	}
}

func (s *Session) apply(a action) (View, error) {
	s.mu.Lock()
	s.lastActive = s.agg.opts.Now()
	s.mu.Unlock()

	var (
		outcome string
		err     error
	)
	if a.kind == actionSearch {
		outcome = s.search(a.ctx, a.value)
	} else {
		err = s.applyMutation(a.ctx, a.kind, a.value)
		outcome = "ok"
		if err != nil {
			outcome = "error"
			logging.Error().Err(err).Int64("user_id", s.userID).Str("action", string(a.kind)).Str("title", a.value).Msg("[session] plan update failed")
		}
	}
	metrics.SessionActions.WithLabelValues(string(a.kind), outcome).Inc()
	return s.View(), err
}

func (s *Session) search(ctx context.Context, query string) string {
	s.setState(StateSearching)
	defer s.setState(StateReady)

	res := &SearchResult{Query: query}
	outcome := "ok"
	anime, err := s.agg.deps.Catalog.Search(ctx, query)
	switch {
	case err == nil && anime != nil:
		res.Found = true
		res.Anime = anime
		res.Description = s.agg.deps.Describer.Describe(ctx, anime.Title)
	case err == nil, errors.Is(err, shikimori.ErrNoMatch):
		outcome = "not_found"
	default:
		outcome = "error"
		res.Error = err.Error()
		logging.Warn().Err(err).Int64("user_id", s.userID).Str("query", query).Msg("[session] catalog search failed")
	}

	s.mu.Lock()
	s.view.Search = res
	s.mu.Unlock()
	return outcome
}

// applyMutation changes the store and then reloads the plan view. The view is
// left as it was when either step fails.
func (s *Session) applyMutation(ctx context.Context, kind actionKind, title string) error {
	s.setState(StateMutating)
	defer s.setState(StateReady)

	store := s.agg.deps.Plan
	var err error
	switch kind {
	case actionAdd:
		err = store.Add(ctx, s.userID, title)
	case actionRemove:
		err = store.Remove(ctx, s.userID, title)
	case actionToggle:
		err = store.Toggle(ctx, s.userID, title)
	}
	if err != nil {
		return err
	}
	items, err := store.List(ctx, s.userID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.view.Plan = orEmpty(items, nil, "plan", &s.view)
	s.view.Degraded = slices.DeleteFunc(s.view.Degraded, func(b string) bool { return b == "plan" })
	s.mu.Unlock()
	return nil
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	if s.state != StateClosed {
		s.state = st
	}
	s.mu.Unlock()
}

func (s *Session) setView(v View, st State) {
	s.mu.Lock()
	s.view = v
	s.state = st
	s.mu.Unlock()
}
