// Package handlers exposes the HTTP surface: discovery endpoints proxied
// to Jikan and watchlist persistence endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/anime-tracker/internal/jikan"
	"github.com/example/anime-tracker/internal/platform/analytics"
	"github.com/example/anime-tracker/internal/platform/api"
	"github.com/example/anime-tracker/internal/platform/httpserver"
	"github.com/example/anime-tracker/internal/watchlist"
)

// API bundles the handler dependencies.
type API struct {
	Log    *zap.Logger
	Jikan  jikan.Provider
	Store  watchlist.Store
	Events *analytics.Publisher
}

// Register mounts every endpoint under the /api prefix.
func (a *API) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			api.WriteJSON(w, http.StatusOK, map[string]any{"message": "Anime Tracker API is running!"})
		})

		r.Get("/anime/search", a.searchAnime)
		r.Get("/anime/{mal_id}", a.getAnime)
		r.Get("/anime/{mal_id}/episodes", a.getEpisodes)
		r.Get("/anime/{mal_id}/recommendations", a.getRecommendations)
		r.Get("/seasons/current", a.getCurrentSeason)
		r.Get("/seasons/{year}/{season}", a.getSeason)
		r.Get("/top/anime", a.getTopAnime)
		r.Get("/genres/anime", a.getGenres)

		r.Post("/watchlist", a.addToWatchlist)
		r.Get("/watchlist/{user_id}", a.getWatchlist)
		r.Put("/watchlist/{item_id}", a.updateWatchlistItem)
		r.Delete("/watchlist/{item_id}", a.removeFromWatchlist)
		r.Get("/stats/{user_id}", a.getUserStats)
	})
}

// writeErr translates domain failures into the HTTP error taxonomy.
// Anything unclassified is logged and reported as an opaque 500.
func (a *API) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	rid := httpserver.RequestIDFromContext(r.Context())

	var ue *jikan.UpstreamError
	switch {
	case errors.As(err, &ue):
		api.Unavailable(w, "UPSTREAM_FAILED", "External API error: "+ue.Error(), rid)
	case errors.Is(err, watchlist.ErrDuplicate):
		api.BadRequest(w, "ALREADY_IN_WATCHLIST", "Anime already in watchlist", rid, nil)
	case errors.Is(err, watchlist.ErrNotFound):
		api.NotFound(w, "NOT_FOUND", "Watchlist item not found", rid)
	default:
		a.Log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", rid),
			zap.Error(err))
		api.Internal(w, rid)
	}
}
