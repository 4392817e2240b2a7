package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/anime-tracker/internal/jikan"
	"github.com/example/anime-tracker/internal/platform/analytics"
	"github.com/example/anime-tracker/internal/platform/api"
	"github.com/example/anime-tracker/internal/platform/httpserver"
)

type searchResponse struct {
	Data       []jikan.AnimeSummary `json:"data"`
	Pagination any                  `json:"pagination"`
}

// searchAnime handles GET /api/anime/search
func (a *API) searchAnime(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	q := r.URL.Query()

	minScore, err := parseFloatPtr(q.Get("min_score"))
	if err != nil {
		api.BadRequest(w, "VALIDATION_MIN_SCORE", "min_score must be a number", rid, nil)
		return
	}
	maxScore, err := parseFloatPtr(q.Get("max_score"))
	if err != nil {
		api.BadRequest(w, "VALIDATION_MAX_SCORE", "max_score must be a number", rid, nil)
		return
	}

	params := jikan.SearchParams{
		Query:    strings.TrimSpace(q.Get("q")),
		Type:     strings.TrimSpace(q.Get("type")),
		Status:   strings.TrimSpace(q.Get("status")),
		Genres:   strings.TrimSpace(q.Get("genres")),
		MinScore: minScore,
		MaxScore: maxScore,
		Page:     parseInt(q.Get("page"), 1, 1, 10000),
		Limit:    parseInt(q.Get("limit"), 25, 1, 25),
	}

	page, err := a.Jikan.Search(r.Context(), params)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}

	a.Events.Publish(analytics.SubjectSearchPerformed, "search_performed", "",
		map[string]any{"query": params.Query, "results": len(page.Data)})

	api.WriteJSON(w, http.StatusOK, searchResponse{
		Data:       jikan.ToSummaries(page.Data),
		Pagination: page.Pagination,
	})
}

// getAnime handles GET /api/anime/{mal_id}
func (a *API) getAnime(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	malID, ok := malIDParam(w, r, rid)
	if !ok {
		return
	}

	data, err := a.Jikan.GetAnime(r.Context(), malID)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}

	a.Events.Publish(analytics.SubjectAnimeViewed, "anime_viewed", "",
		map[string]any{"mal_id": malID})

	api.WriteJSON(w, http.StatusOK, jikan.ToDetail(*data))
}

// getEpisodes handles GET /api/anime/{mal_id}/episodes
func (a *API) getEpisodes(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	malID, ok := malIDParam(w, r, rid)
	if !ok {
		return
	}
	page := parseInt(r.URL.Query().Get("page"), 1, 1, 10000)

	raw, err := a.Jikan.Episodes(r.Context(), malID, page)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, raw)
}

// getRecommendations handles GET /api/anime/{mal_id}/recommendations
func (a *API) getRecommendations(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())
	malID, ok := malIDParam(w, r, rid)
	if !ok {
		return
	}

	raw, err := a.Jikan.Recommendations(r.Context(), malID)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, raw)
}

// getSeason handles GET /api/seasons/{year}/{season}
func (a *API) getSeason(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())

	year, err := strconv.Atoi(strings.TrimSpace(chi.URLParam(r, "year")))
	if err != nil || year <= 0 {
		api.BadRequest(w, "VALIDATION_YEAR", "Invalid year", rid, nil)
		return
	}
	season := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "season")))
	if season == "" {
		api.BadRequest(w, "VALIDATION_SEASON", "season is required", rid, nil)
		return
	}

	raw, err := a.Jikan.Season(r.Context(), year, season)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, raw)
}

// getCurrentSeason handles GET /api/seasons/current
func (a *API) getCurrentSeason(w http.ResponseWriter, r *http.Request) {
	raw, err := a.Jikan.CurrentSeason(r.Context())
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, raw)
}

// getTopAnime handles GET /api/top/anime
func (a *API) getTopAnime(w http.ResponseWriter, r *http.Request) {
	animeType := strings.TrimSpace(r.URL.Query().Get("type"))
	page := parseInt(r.URL.Query().Get("page"), 1, 1, 10000)

	raw, err := a.Jikan.TopAnime(r.Context(), animeType, page)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, raw)
}

// getGenres handles GET /api/genres/anime
func (a *API) getGenres(w http.ResponseWriter, r *http.Request) {
	raw, err := a.Jikan.Genres(r.Context())
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, raw)
}

func malIDParam(w http.ResponseWriter, r *http.Request, rid string) (int, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "mal_id"))
	malID, err := strconv.Atoi(raw)
	if err != nil || malID <= 0 {
		api.BadRequest(w, "VALIDATION_MAL_ID", "Invalid mal_id", rid, map[string]any{"mal_id": raw})
		return 0, false
	}
	return malID, true
}
