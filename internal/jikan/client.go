package jikan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/anime-tracker/internal/ratelimit"
)

// UpstreamError is the single failure type surfaced for any transport,
// status or decode problem while talking to Jikan.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return "jikan: " + e.Op + ": " + e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// Tag is a mal_id + name + type triple (genres, themes, studios, ...).
type Tag struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type,omitempty"`
	Name  string `json:"name"`
}

// AnimeData is the shared data block returned by single and list endpoints.
// Optional fields are pointers so upstream nulls survive the round trip.
type AnimeData struct {
	MalID         int            `json:"mal_id"`
	Title         string         `json:"title"`
	TitleEnglish  *string        `json:"title_english"`
	TitleJapanese *string        `json:"title_japanese"`
	Type          *string        `json:"type"`
	Episodes      *int           `json:"episodes"`
	Status        *string        `json:"status"`
	Year          *int           `json:"year"`
	Season        *string        `json:"season"`
	Score         *float64       `json:"score"`
	ScoredBy      *int           `json:"scored_by"`
	Rank          *int           `json:"rank"`
	Popularity    *int           `json:"popularity"`
	Synopsis      *string        `json:"synopsis"`
	Background    *string        `json:"background"`
	Images        map[string]any `json:"images"`
	Genres        []Tag          `json:"genres"`
	Themes        []Tag          `json:"themes"`
	Demographics  []Tag          `json:"demographics"`

	// Present only on the full detail endpoint.
	Trailer   map[string]any `json:"trailer"`
	Aired     map[string]any `json:"aired"`
	Duration  *string        `json:"duration"`
	Rating    *string        `json:"rating"`
	Source    *string        `json:"source"`
	Studios   []Tag          `json:"studios"`
	Producers []Tag          `json:"producers"`
	Licensors []Tag          `json:"licensors"`
}

// SearchPage is a mapped-ready search result page; pagination passes
// through from upstream unchanged.
type SearchPage struct {
	Data       []AnimeData     `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

type animeEnvelope struct {
	Data AnimeData `json:"data"`
}

// SearchParams are the supported Jikan search filters. Score bounds are
// pointers so a present zero value is still forwarded.
type SearchParams struct {
	Query    string
	Type     string
	Status   string
	Genres   string // comma-separated genre ids, forwarded verbatim
	MinScore *float64
	MaxScore *float64
	Page     int
	Limit    int
}

// Client talks to the Jikan v4 API. Every call is paced through a single
// process-wide Pacer so this service stays within upstream limits.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Pacer      *ratelimit.Pacer
}

func New(baseURL string, pacer *ratelimit.Pacer) *Client {
	if baseURL == "" {
		baseURL = "https://api.jikan.moe/v4"
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Pacer:      pacer,
	}
}

// Search queries the anime catalog with the given filters.
func (c *Client) Search(ctx context.Context, p SearchParams) (*SearchPage, error) {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Type != "" {
		q.Set("type", p.Type)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Genres != "" {
		q.Set("genres", p.Genres)
	}
	if p.MinScore != nil {
		q.Set("min_score", strconv.FormatFloat(*p.MinScore, 'f', -1, 64))
	}
	if p.MaxScore != nil {
		q.Set("max_score", strconv.FormatFloat(*p.MaxScore, 'f', -1, 64))
	}

	b, err := c.get(ctx, "/anime", q)
	if err != nil {
		return nil, err
	}
	var out SearchPage
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, &UpstreamError{Op: "decode search", Err: err}
	}
	return &out, nil
}

// GetAnime returns the full detail block for one title.
func (c *Client) GetAnime(ctx context.Context, malID int) (*AnimeData, error) {
	b, err := c.get(ctx, "/anime/"+strconv.Itoa(malID), nil)
	if err != nil {
		return nil, err
	}
	var out animeEnvelope
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, &UpstreamError{Op: "decode anime", Err: err}
	}
	return &out.Data, nil
}

// Episodes returns the upstream episodes page unmapped.
func (c *Client) Episodes(ctx context.Context, malID, page int) (json.RawMessage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return c.get(ctx, "/anime/"+strconv.Itoa(malID)+"/episodes", q)
}

// Recommendations returns the upstream recommendation list unmapped.
func (c *Client) Recommendations(ctx context.Context, malID int) (json.RawMessage, error) {
	return c.get(ctx, "/anime/"+strconv.Itoa(malID)+"/recommendations", nil)
}

// Season returns the seasonal list for a specific year and season unmapped.
func (c *Client) Season(ctx context.Context, year int, season string) (json.RawMessage, error) {
	return c.get(ctx, "/seasons/"+strconv.Itoa(year)+"/"+url.PathEscape(season), nil)
}

// CurrentSeason returns the currently airing seasonal list unmapped.
func (c *Client) CurrentSeason(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/seasons/now", nil)
}

// TopAnime returns a page of the top-ranked list unmapped.
func (c *Client) TopAnime(ctx context.Context, animeType string, page int) (json.RawMessage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if animeType != "" {
		q.Set("type", animeType)
	}
	return c.get(ctx, "/top/anime", q)
}

// Genres returns the genre taxonomy unmapped.
func (c *Client) Genres(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/genres/anime", nil)
}

// get performs one paced GET against Jikan. The pacing slot is taken
// before the request is issued, so a failing call still consumes it.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := c.Pacer.Wait(ctx); err != nil {
		return nil, err
	}

	rawURL := c.BaseURL + path
	if len(q) > 0 {
		rawURL += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &UpstreamError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "anime-tracker/1.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Op: "GET " + path, Err: err}
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &UpstreamError{Op: "read " + path, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{
			Op:  "GET " + path,
			Err: fmt.Errorf("status %d body=%q", resp.StatusCode, string(b[:min(len(b), 200)])),
		}
	}
	return b, nil
}
