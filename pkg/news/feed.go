package news

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"animeplan/pkg/upstream"
)

// FeedClient reads headlines from an RSS or Atom feed.
type FeedClient struct {
	feedURL string
	http    getter
}

func NewFeedClient(feedURL string, g getter) *FeedClient {
	return &FeedClient{feedURL: feedURL, http: g}
}

func (c *FeedClient) ListNews(ctx context.Context, limit int) ([]string, error) {
	body, err := c.http.Get(ctx, c.feedURL, nil)
	if err != nil {
		return nil, err
	}
	// gofeed parsers keep per-parse state.
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: feed: %v", upstream.ErrMalformed, err)
	}
	titles := make([]string, 0, len(feed.Items))
	for _, it := range feed.Items {
		titles = append(titles, it.Title)
	}
	return firstN(titles, limit), nil
}
