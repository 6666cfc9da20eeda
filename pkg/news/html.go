package news

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"animeplan/pkg/logging"
	"animeplan/pkg/upstream"
)

// HeadlineSelector matches topic titles on the Shikimori news index.
const HeadlineSelector = ".b-news-topic__title"

// HTMLClient scrapes headlines from a news index page.
type HTMLClient struct {
	pageURL  string
	selector string
	http     getter
}

func NewHTMLClient(pageURL string, g getter) *HTMLClient {
	return &HTMLClient{pageURL: pageURL, selector: HeadlineSelector, http: g}
}

func (c *HTMLClient) ListNews(ctx context.Context, limit int) ([]string, error) {
	body, err := c.http.Get(ctx, c.pageURL, nil)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: news page: %v", upstream.ErrMalformed, err)
	}

	var texts []string
	doc.Find(c.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		texts = append(texts, s.Text())
		return len(texts) < limit
	})
	if len(texts) == 0 {
		logging.Debug().Str("url", c.pageURL).Str("selector", c.selector).Msg("no headlines matched")
	}
	return firstN(texts, limit), nil
}
