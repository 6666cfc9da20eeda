package session

import (
	"slices"

	"animeplan/entities"
	"animeplan/pkg/shikimori"
)

type State int

const (
	StateInitializing State = iota
	StateReady
	StateSearching
	StateMutating
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateSearching:
		return "searching"
	case StateMutating:
		return "mutating"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// SearchResult is the single search slot of a view. Found is false both for
// "no match" and for a failed lookup; Error carries the failure text.
type SearchResult struct {
	Query       string                 `json:"query"`
	Found       bool                   `json:"found"`
	Anime       *entities.AnimeSummary `json:"anime,omitempty"`
	Description string                 `json:"description,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// View is what one session shows its user.
type View struct {
	UserID   int64               `json:"user_id"`
	State    string              `json:"state"`
	Plan     []entities.PlanItem `json:"plan"`
	Seasonal []shikimori.Record  `json:"seasonal"`
	News     []string            `json:"news"`
	Search   *SearchResult       `json:"search,omitempty"`
	// Degraded names the branches that fell back to an empty list on load.
	Degraded []string `json:"degraded,omitempty"`
}

func (v View) clone() View {
	out := v
	out.Plan = slices.Clone(v.Plan)
	out.Seasonal = slices.Clone(v.Seasonal)
	out.News = slices.Clone(v.News)
	out.Degraded = slices.Clone(v.Degraded)
	if v.Search != nil {
		sr := *v.Search
		if sr.Anime != nil {
			a := *sr.Anime
			sr.Anime = &a
		}
		out.Search = &sr
	}
	return out
}
