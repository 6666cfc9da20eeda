package shikimori

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// SeasonalClient lists titles airing in a season. Nothing is cached; every
// call goes to the network.
type SeasonalClient struct {
	base string
	http getter
}

func NewSeasonalClient(baseURL string, g getter) *SeasonalClient {
	return &SeasonalClient{base: strings.TrimRight(baseURL, "/"), http: g}
}

// ListSeasonal returns the provider records in the order received.
func (c *SeasonalClient) ListSeasonal(ctx context.Context, season Season, limit int, order string) ([]Record, error) {
	q := url.Values{
		"season": {season.String()},
		"limit":  {strconv.Itoa(limit)},
		"order":  {order},
	}
	body, err := c.http.Get(ctx, c.base+"/api/animes", q)
	if err != nil {
		return nil, err
	}
	recs, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("seasonal %s: %w", season, err)
	}
	return recs, nil
}
