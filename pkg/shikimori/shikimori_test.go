package shikimori

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"animeplan/entities"
	"animeplan/pkg/upstream"
)

func newServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func fetcher(name string) *upstream.Fetcher {
	return upstream.New(upstream.Options{Name: name, Timeout: 2 * time.Second})
}

func TestSearch_FirstResult(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[
		{"id":20,"name":"Naruto","russian":"Наруто","url":"/animes/20-naruto","score":"7.99","status":"released","episodes":220},
		{"id":1735,"name":"Naruto: Shippuuden","russian":"Наруто: Ураганные хроники","score":"8.22","status":"released","episodes":500}
	]`, func(r *http.Request) {
		if r.URL.Path != "/api/animes" || r.URL.Query().Get("search") != "naruto" {
			t.Errorf("unexpected request %s", r.URL)
		}
	})

	c := NewCatalogClient(srv.URL, fetcher("search-first"))
	got, err := c.Search(context.Background(), "naruto")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.Title != "Наруто" || got.Score != 7.99 || got.Status != entities.StatusReleased {
		t.Fatalf("unexpected summary %+v", got)
	}
	if got.EpisodeCount == nil || *got.EpisodeCount != 220 {
		t.Fatalf("episodes = %v", got.EpisodeCount)
	}
	if got.URL != srv.URL+"/animes/20-naruto" {
		t.Fatalf("url = %q", got.URL)
	}
}

func TestSearch_FallsBackToCanonicalName(t *testing.T) {
	srv := newServer(t, http.StatusOK,
		`[{"id":269,"name":"Bleach","russian":"","score":7.9,"status":"released","episodes":366}]`, nil)

	c := NewCatalogClient(srv.URL, fetcher("search-bleach"))
	got, err := c.Search(context.Background(), "bleach")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.Title != "Bleach" {
		t.Fatalf("title = %q, want Bleach", got.Title)
	}
	if got.URL != srv.URL+"/animes/269-Bleach" {
		t.Fatalf("url = %q", got.URL)
	}
}

func TestSearch_UnknownEpisodeCount(t *testing.T) {
	srv := newServer(t, http.StatusOK,
		`[{"id":5,"name":"One Piece","russian":"Ван-Пис","score":"8.7","status":"ongoing","episodes":0}]`, nil)

	got, err := NewCatalogClient(srv.URL, fetcher("search-ongoing")).Search(context.Background(), "one piece")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got.EpisodeCount != nil {
		t.Fatalf("episodes = %d, want unknown", *got.EpisodeCount)
	}
	if got.Status != entities.StatusOngoing {
		t.Fatalf("status = %q", got.Status)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[]`, nil)

	_, err := NewCatalogClient(srv.URL, fetcher("search-empty")).Search(context.Background(), "zzzz")
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("want ErrNoMatch, got %v", err)
	}
}

func TestSearch_TransportFailure(t *testing.T) {
	srv := newServer(t, http.StatusInternalServerError, `oops`, nil)

	_, err := NewCatalogClient(srv.URL, fetcher("search-500")).Search(context.Background(), "naruto")
	if !upstream.IsTransport(err) {
		t.Fatalf("want transport error, got %v", err)
	}
}

func TestSearch_MalformedRecord(t *testing.T) {
	cases := map[string]string{
		"missing name": `[{"id":1,"russian":"Что-то"}]`,
		"missing id":   `[{"name":"Something"}]`,
		"not an array": `{"id":1,"name":"x"}`,
		"bad score":    `[{"id":1,"name":"x","score":"n/a"}]`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, http.StatusOK, body, nil)
			_, err := NewCatalogClient(srv.URL, fetcher("search-malformed")).Search(context.Background(), "x")
			if !errors.Is(err, upstream.ErrMalformed) {
				t.Fatalf("want ErrMalformed, got %v", err)
			}
		})
	}
}

func TestListSeasonal_QueryAndOrder(t *testing.T) {
	srv := newServer(t, http.StatusOK, `[
		{"id":3,"name":"C","score":"9.1"},
		{"id":1,"name":"A","russian":"А","score":"8.5"},
		{"id":2,"name":"B","score":null}
	]`, func(r *http.Request) {
		q := r.URL.Query()
		if q.Get("season") != "spring_2025" || q.Get("limit") != "10" || q.Get("order") != "ranked" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
	})

	c := NewSeasonalClient(srv.URL, fetcher("seasonal-ok"))
	recs, err := c.ListSeasonal(context.Background(), Season{Name: "spring", Year: 2025}, 10, "ranked")
	if err != nil {
		t.Fatalf("seasonal: %v", err)
	}
	if len(recs) != 3 || recs[0].ID != 3 || recs[1].ID != 1 || recs[2].ID != 2 {
		t.Fatalf("order not preserved: %+v", recs)
	}
	if recs[1].DisplayTitle() != "А" || recs[2].Score != 0 {
		t.Fatalf("unexpected records %+v", recs)
	}
}

func TestListSeasonal_Failure(t *testing.T) {
	srv := newServer(t, http.StatusServiceUnavailable, ``, nil)

	_, err := NewSeasonalClient(srv.URL, fetcher("seasonal-503")).
		ListSeasonal(context.Background(), Season{Name: "fall", Year: 2024}, 10, "ranked")
	if !upstream.IsTransport(err) {
		t.Fatalf("want transport error, got %v", err)
	}
}

func TestCurrentSeason(t *testing.T) {
	cases := []struct {
		month time.Month
		want  string
	}{
		{time.January, "winter_2025"},
		{time.March, "winter_2025"},
		{time.April, "spring_2025"},
		{time.June, "spring_2025"},
		{time.July, "summer_2025"},
		{time.September, "summer_2025"},
		{time.October, "fall_2025"},
		{time.December, "fall_2025"},
	}
	for _, tc := range cases {
		got := CurrentSeason(time.Date(2025, tc.month, 15, 0, 0, 0, 0, time.UTC)).String()
		if got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.month, got, tc.want)
		}
	}
}

func TestParseSeason(t *testing.T) {
	s, err := ParseSeason(" Summer_2024 ")
	if err != nil || s != (Season{Name: "summer", Year: 2024}) {
		t.Fatalf("got %v, %v", s, err)
	}
	for _, bad := range []string{"", "summer", "autumn_2024", "winter_x"} {
		if _, err := ParseSeason(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}
