package jikan

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/example/anime-tracker/internal/ratelimit"
)

func mustParseQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	q, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("parse query %q: %v", raw, err)
	}
	return q
}

func newTestClient(t *testing.T, handler http.HandlerFunc, interval time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, ratelimit.NewPacer(interval))
}

func TestSearch_ForwardsFiltersAndDecodes(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[{"mal_id":1,"title":"a"},{"mal_id":2,"title":"b"}],"pagination":{"has_next_page":false}}`))
	}, time.Millisecond)

	zero := 0.0
	page, err := c.Search(context.Background(), SearchParams{
		Query:    "bebop",
		Type:     "tv",
		MinScore: &zero,
		Page:     2,
		Limit:    10,
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 results, got %d", len(page.Data))
	}
	if page.Data[0].MalID != 1 || page.Data[1].MalID != 2 {
		t.Fatalf("upstream order not preserved: %+v", page.Data)
	}
	if len(page.Pagination) == 0 {
		t.Fatal("expected pagination to pass through")
	}

	q := mustParseQuery(t, gotQuery)
	if q.Get("q") != "bebop" || q.Get("type") != "tv" {
		t.Fatalf("filters not forwarded: %q", gotQuery)
	}
	// A present zero is still a valid score filter.
	if q.Get("min_score") != "0" {
		t.Fatalf("expected min_score=0 to be forwarded, got %q", gotQuery)
	}
	if q.Get("page") != "2" || q.Get("limit") != "10" {
		t.Fatalf("paging not forwarded: %q", gotQuery)
	}
}

func TestSearch_AbsentScoreFiltersOmitted(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"data":[]}`))
	}, time.Millisecond)

	if _, err := c.Search(context.Background(), SearchParams{Page: 1, Limit: 25}); err != nil {
		t.Fatalf("search: %v", err)
	}
	q := mustParseQuery(t, gotQuery)
	if q.Has("min_score") || q.Has("max_score") {
		t.Fatalf("absent score filters must not be forwarded: %q", gotQuery)
	}
}

func TestGetAnime_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/anime/5" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"mal_id":5,"title":"Monster","episodes":74}}`))
	}, time.Millisecond)

	d, err := c.GetAnime(context.Background(), 5)
	if err != nil {
		t.Fatalf("get anime: %v", err)
	}
	if d.MalID != 5 || d.Title != "Monster" {
		t.Fatalf("unexpected data: %+v", d)
	}
	if d.Episodes == nil || *d.Episodes != 74 {
		t.Fatalf("expected 74 episodes, got %v", d.Episodes)
	}
}

func TestNon200_SurfacesUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}, time.Millisecond)

	_, err := c.GetAnime(context.Background(), 1)
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
}

func TestMalformedPayload_SurfacesUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"mal_id":"not-a-number"}}`))
	}, time.Millisecond)

	_, err := c.GetAnime(context.Background(), 1)
	var ue *UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UpstreamError on decode failure, got %v", err)
	}
}

func TestFailedCallStillConsumesPacingSlot(t *testing.T) {
	const interval = 60 * time.Millisecond

	var mu sync.Mutex
	var hits []time.Time
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits = append(hits, time.Now())
		mu.Unlock()
		http.Error(w, "boom", http.StatusInternalServerError)
	}, interval)

	ctx := context.Background()
	_, _ = c.GetAnime(ctx, 1) // fails, but takes the first slot
	_, _ = c.GetAnime(ctx, 1)

	mu.Lock()
	defer mu.Unlock()
	if len(hits) != 2 {
		t.Fatalf("expected 2 upstream hits, got %d", len(hits))
	}
	if spacing := hits[1].Sub(hits[0]); spacing < interval-10*time.Millisecond {
		t.Fatalf("expected >= %s between calls, got %s", interval, spacing)
	}
}

func TestPassthroughEndpointsReturnRawBody(t *testing.T) {
	body := `{"data":[{"mal_id":10}],"pagination":{"has_next_page":true}}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}, time.Millisecond)
	ctx := context.Background()

	for name, call := range map[string]func() (json.RawMessage, error){
		"episodes":        func() (json.RawMessage, error) { return c.Episodes(ctx, 10, 1) },
		"recommendations": func() (json.RawMessage, error) { return c.Recommendations(ctx, 10) },
		"season":          func() (json.RawMessage, error) { return c.Season(ctx, 2024, "winter") },
		"current season":  func() (json.RawMessage, error) { return c.CurrentSeason(ctx) },
		"top":             func() (json.RawMessage, error) { return c.TopAnime(ctx, "tv", 1) },
		"genres":          func() (json.RawMessage, error) { return c.Genres(ctx) },
	} {
		raw, err := call()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if string(raw) != body {
			t.Fatalf("%s: body not passed through: %s", name, raw)
		}
	}
}
