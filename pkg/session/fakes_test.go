package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"animeplan/entities"
	"animeplan/pkg/shikimori"
	"animeplan/pkg/upstream"
)

var errDisk = errors.New("disk I/O error")

type memPlan struct {
	mu        sync.Mutex
	rows      map[int64][]entities.PlanItem
	listErr   error
	mutateErr error
	hold      chan struct{} // when set, mutations wait on it

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newMemPlan() *memPlan { return &memPlan{rows: map[int64][]entities.PlanItem{}} }

func (m *memPlan) enter() func() {
	n := m.inFlight.Add(1)
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			break
		}
	}
	if m.hold != nil {
		<-m.hold
	} else {
		time.Sleep(time.Millisecond)
	}
	return func() { m.inFlight.Add(-1) }
}

func (m *memPlan) Add(_ context.Context, u int64, t string) error {
	defer m.enter()()
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.rows[u] {
		if it.Title == t {
			return nil
		}
	}
	m.rows[u] = append(m.rows[u], entities.PlanItem{Title: t})
	return nil
}

func (m *memPlan) Remove(_ context.Context, u int64, t string) error {
	defer m.enter()()
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.rows[u][:0]
	for _, it := range m.rows[u] {
		if it.Title != t {
			out = append(out, it)
		}
	}
	m.rows[u] = out
	return nil
}

func (m *memPlan) Toggle(_ context.Context, u int64, t string) error {
	defer m.enter()()
	if m.mutateErr != nil {
		return m.mutateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows[u] {
		if m.rows[u][i].Title == t {
			m.rows[u][i].Watched = !m.rows[u][i].Watched
		}
	}
	return nil
}

func (m *memPlan) List(_ context.Context, u int64) ([]entities.PlanItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entities.PlanItem(nil), m.rows[u]...), nil
}

type fakeCatalog struct {
	hits  map[string]entities.AnimeSummary
	err   error
	calls atomic.Int32
}

func (f *fakeCatalog) Search(_ context.Context, q string) (*entities.AnimeSummary, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.hits[q]
	if !ok {
		return nil, shikimori.ErrNoMatch
	}
	return &s, nil
}

type fakeSeasonal struct {
	recs   []shikimori.Record
	err    error
	before func()
	got    shikimori.Season
}

func (f *fakeSeasonal) ListSeasonal(_ context.Context, s shikimori.Season, limit int, _ string) ([]shikimori.Record, error) {
	if f.before != nil {
		f.before()
	}
	f.got = s
	if f.err != nil {
		return nil, f.err
	}
	if len(f.recs) > limit {
		return f.recs[:limit], nil
	}
	return f.recs, nil
}

type fakeNews struct {
	items  []string
	err    error
	before func()
}

func (f *fakeNews) ListNews(_ context.Context, limit int) ([]string, error) {
	if f.before != nil {
		f.before()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeDescriber struct {
	text  string
	calls atomic.Int32
}

func (f *fakeDescriber) Describe(_ context.Context, title string) string {
	f.calls.Add(1)
	if f.text != "" {
		return f.text
	}
	return "about " + title
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	plan     *memPlan
	catalog  *fakeCatalog
	seasonal *fakeSeasonal
	news     *fakeNews
	desc     *fakeDescriber
	clock    *clock
}

func newFixture() *fixture {
	return &fixture{
		plan: newMemPlan(),
		catalog: &fakeCatalog{hits: map[string]entities.AnimeSummary{
			"naruto": {Title: "Наруто", Status: entities.StatusReleased, Score: 7.99, URL: "https://shikimori.one/animes/20-naruto"},
		}},
		seasonal: &fakeSeasonal{recs: []shikimori.Record{{ID: 1, Name: "Frieren"}, {ID: 2, Name: "Dandadan"}}},
		news:     &fakeNews{items: []string{"headline one", "headline two"}},
		desc:     &fakeDescriber{},
		clock:    &clock{now: time.Date(2025, time.April, 10, 12, 0, 0, 0, time.UTC)},
	}
}

func (f *fixture) aggregator() *Aggregator {
	return NewAggregator(Deps{
		Plan:      f.plan,
		Catalog:   f.catalog,
		Seasonal:  f.seasonal,
		News:      f.news,
		Describer: f.desc,
	}, Options{Now: f.clock.Now})
}

func transportErr(name string) error {
	return &upstream.TransportError{Upstream: name, URL: "http://upstream.test", StatusCode: 503, Err: errors.New("503 Service Unavailable")}
}
