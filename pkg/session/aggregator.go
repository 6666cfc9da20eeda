package session

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"animeplan/entities"
	"animeplan/pkg/logging"
	"animeplan/pkg/metrics"
	"animeplan/pkg/shikimori"
)

type PlanStore interface {
	Add(ctx context.Context, userID int64, title string) error
	Remove(ctx context.Context, userID int64, title string) error
	Toggle(ctx context.Context, userID int64, title string) error
	List(ctx context.Context, userID int64) ([]entities.PlanItem, error)
}

type Catalog interface {
	Search(ctx context.Context, query string) (*entities.AnimeSummary, error)
}

type Seasonal interface {
	ListSeasonal(ctx context.Context, season shikimori.Season, limit int, order string) ([]shikimori.Record, error)
}

type News interface {
	ListNews(ctx context.Context, limit int) ([]string, error)
}

type Describer interface {
	Describe(ctx context.Context, title string) string
}

// Deps are the collaborators every session talks to.
type Deps struct {
	Plan      PlanStore
	Catalog   Catalog
	Seasonal  Seasonal
	News      News
	Describer Describer
}

type Options struct {
	SeasonalLimit int
	SeasonalOrder string
	NewsLimit     int
	// Season pins the seasonal listing; the zero value derives it from Now.
	Season shikimori.Season
	Now    func() time.Time
}

// Aggregator opens sessions over a shared set of collaborators.
type Aggregator struct {
	deps Deps
	opts Options
}

func NewAggregator(deps Deps, opts Options) *Aggregator {
	if opts.SeasonalLimit <= 0 {
		opts.SeasonalLimit = 10
	}
	if opts.SeasonalOrder == "" {
		opts.SeasonalOrder = "ranked"
	}
	if opts.NewsLimit <= 0 {
		opts.NewsLimit = 10
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Aggregator{deps: deps, opts: opts}
}

func (a *Aggregator) season() shikimori.Season {
	if a.opts.Season.Name != "" {
		return a.opts.Season
	}
	return shikimori.CurrentSeason(a.opts.Now())
}

// Open starts a session for userID and returns once its plan, seasonal and
// news views have loaded. A failing view is left empty; Open itself does not
// fail.
func (a *Aggregator) Open(ctx context.Context, userID int64) *Session {
	s := newSession(a, userID)
	s.setView(a.load(ctx, userID), StateReady)
	logging.Info().Int64("user_id", userID).Strs("degraded", s.View().Degraded).Msg("[session] ready")
	return s
}

// OpenURI opens a session for the user named by a deep link.
func (a *Aggregator) OpenURI(ctx context.Context, uri string) *Session {
	return a.Open(ctx, ParseUserID(uri))
}

func (a *Aggregator) load(ctx context.Context, userID int64) View {
	var (
		plan     []entities.PlanItem
		seasonal []shikimori.Record
		headline []string
		planErr  error
		seasErr  error
		newsErr  error
	)

	// Branches never return errors so one failure cannot cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		plan, planErr = a.deps.Plan.List(ctx, userID)
		return nil
	})
	g.Go(func() error {
		seasonal, seasErr = a.deps.Seasonal.ListSeasonal(ctx, a.season(), a.opts.SeasonalLimit, a.opts.SeasonalOrder)
		return nil
	})
	g.Go(func() error {
		headline, newsErr = a.deps.News.ListNews(ctx, a.opts.NewsLimit)
		return nil
	})
	_ = g.Wait()

	v := View{UserID: userID}
	v.Plan = orEmpty(plan, planErr, "plan", &v)
	v.Seasonal = orEmpty(seasonal, seasErr, "seasonal", &v)
	v.News = orEmpty(headline, newsErr, "news", &v)
	return v
}

func orEmpty[T any](items []T, err error, branch string, v *View) []T {
	if err != nil {
		metrics.ViewBranchFailures.WithLabelValues(branch).Inc()
		logging.Warn().Err(err).Int64("user_id", v.UserID).Str("branch", branch).Msg("[session] view branch failed, showing empty list")
		v.Degraded = append(v.Degraded, branch)
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}
