package entities

// AnimeStatus as reported by the catalog.
type AnimeStatus string

const (
	StatusAnnounced AnimeStatus = "anons"
	StatusOngoing   AnimeStatus = "ongoing"
	StatusReleased  AnimeStatus = "released"
)

// AnimeSummary is the search result shown to the user. It is built fresh per
// search and never persisted.
type AnimeSummary struct {
	Title        string      `json:"title"`
	EpisodeCount *int        `json:"episode_count"` // nil while unknown (ongoing titles)
	Status       AnimeStatus `json:"status"`
	Score        float64     `json:"score"`
	URL          string      `json:"url"`
}
