package news

import (
	"context"
	"net/url"
	"strings"
)

// Lister returns up to limit headline strings in the order the source lists
// them. Transport failures are returned; a source that yields no headlines
// gives an empty list.
type Lister interface {
	ListNews(ctx context.Context, limit int) ([]string, error)
}

type getter interface {
	Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error)
}

// firstN trims the first limit texts.
func firstN(texts []string, limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if len(texts) > limit {
		texts = texts[:limit]
	}
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		out = append(out, strings.TrimSpace(t))
	}
	return out
}
