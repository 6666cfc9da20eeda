package shikimori

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"animeplan/entities"
)

// ErrNoMatch is returned by Search when the catalog has no result.
var ErrNoMatch = errors.New("no matching title")

type getter interface {
	Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error)
}

// CatalogClient looks up a single best-match title.
type CatalogClient struct {
	base string
	http getter
}

func NewCatalogClient(baseURL string, g getter) *CatalogClient {
	return &CatalogClient{base: strings.TrimRight(baseURL, "/"), http: g}
}

// Search returns the first ranked result for query, ErrNoMatch when there is
// none, or the transport/decoding error.
func (c *CatalogClient) Search(ctx context.Context, query string) (*entities.AnimeSummary, error) {
	body, err := c.http.Get(ctx, c.base+"/api/animes", url.Values{"search": {query}})
	if err != nil {
		return nil, err
	}
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if len(recs) == 0 {
		return nil, ErrNoMatch
	}
	s := c.summarize(recs[0])
	return &s, nil
}

func (c *CatalogClient) summarize(r Record) entities.AnimeSummary {
	s := entities.AnimeSummary{
		Title:  r.DisplayTitle(),
		Status: entities.AnimeStatus(r.Status),
		Score:  float64(r.Score),
		URL:    c.recordURL(r),
	}
	if r.Episodes > 0 {
		n := r.Episodes
		s.EpisodeCount = &n
	}
	return s
}

func (c *CatalogClient) recordURL(r Record) string {
	if strings.HasPrefix(r.URL, "/") {
		return c.base + r.URL
	}
	return c.base + "/animes/" + strconv.FormatInt(r.ID, 10) + "-" + url.PathEscape(r.Name)
}
