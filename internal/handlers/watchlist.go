package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/anime-tracker/internal/platform/analytics"
	"github.com/example/anime-tracker/internal/platform/api"
	"github.com/example/anime-tracker/internal/platform/httpserver"
	"github.com/example/anime-tracker/internal/watchlist"
)

type addWatchlistRequest struct {
	UserID         string  `json:"user_id"`
	MalID          int     `json:"mal_id"`
	AnimeTitle     string  `json:"anime_title"`
	Status         string  `json:"status"`
	CurrentEpisode *int    `json:"current_episode"`
	Score          *int    `json:"score"`
	Notes          *string `json:"notes"`
}

// addToWatchlist handles POST /api/watchlist
func (a *API) addToWatchlist(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())

	var req addWatchlistRequest
	if !decodeJSON(w, r, rid, &req) {
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	req.AnimeTitle = strings.TrimSpace(req.AnimeTitle)
	if req.UserID == "" {
		api.BadRequest(w, "VALIDATION_USER_ID", "user_id is required", rid, nil)
		return
	}
	if req.MalID <= 0 {
		api.BadRequest(w, "VALIDATION_MAL_ID", "mal_id is required", rid, nil)
		return
	}
	if req.AnimeTitle == "" {
		api.BadRequest(w, "VALIDATION_TITLE", "anime_title is required", rid, nil)
		return
	}

	status := watchlist.StatusPlanToWatch
	if s := strings.ToLower(strings.TrimSpace(req.Status)); s != "" {
		if !watchlist.ValidStatus(s) {
			api.BadRequest(w, "VALIDATION_STATUS",
				"status must be one of: watching, completed, plan_to_watch, dropped, on_hold", rid, nil)
			return
		}
		status = s
	}

	currentEpisode := 0
	if req.CurrentEpisode != nil {
		if *req.CurrentEpisode < 0 {
			api.BadRequest(w, "VALIDATION_EPISODE", "current_episode must be >= 0", rid, nil)
			return
		}
		currentEpisode = *req.CurrentEpisode
	}

	it, err := a.Store.Add(r.Context(), watchlist.Item{
		UserID:         req.UserID,
		MalID:          req.MalID,
		AnimeTitle:     req.AnimeTitle,
		Status:         status,
		CurrentEpisode: currentEpisode,
		Score:          req.Score,
		Notes:          req.Notes,
	})
	if err != nil {
		a.writeErr(w, r, err)
		return
	}

	a.Events.Publish(analytics.SubjectWatchlistAdded, "watchlist_added", it.UserID,
		map[string]any{"mal_id": it.MalID, "status": it.Status})

	api.WriteJSON(w, http.StatusOK, it)
}

// getWatchlist handles GET /api/watchlist/{user_id}
func (a *API) getWatchlist(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())

	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if userID == "" {
		api.BadRequest(w, "VALIDATION_USER_ID", "user_id is required", rid, nil)
		return
	}

	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" && !watchlist.ValidStatus(status) {
		api.BadRequest(w, "VALIDATION_STATUS", "invalid status filter", rid, nil)
		return
	}

	items, err := a.Store.List(r.Context(), userID, status)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, items)
}

// updateWatchlistItem handles PUT /api/watchlist/{item_id}
func (a *API) updateWatchlistItem(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())

	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		api.BadRequest(w, "VALIDATION_ITEM_ID", "item_id is required", rid, nil)
		return
	}

	var upd watchlist.Update
	if !decodeJSON(w, r, rid, &upd) {
		return
	}

	if upd.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*upd.Status))
		if !watchlist.ValidStatus(s) {
			api.BadRequest(w, "VALIDATION_STATUS",
				"status must be one of: watching, completed, plan_to_watch, dropped, on_hold", rid, nil)
			return
		}
		upd.Status = &s
	}
	if upd.CurrentEpisode != nil && *upd.CurrentEpisode < 0 {
		api.BadRequest(w, "VALIDATION_EPISODE", "current_episode must be >= 0", rid, nil)
		return
	}

	it, err := a.Store.Update(r.Context(), itemID, upd)
	if err != nil {
		a.writeErr(w, r, err)
		return
	}

	a.Events.Publish(analytics.SubjectWatchlistUpdated, "watchlist_updated", it.UserID,
		map[string]any{"mal_id": it.MalID, "status": it.Status})

	api.WriteJSON(w, http.StatusOK, it)
}

// removeFromWatchlist handles DELETE /api/watchlist/{item_id}
func (a *API) removeFromWatchlist(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())

	itemID := strings.TrimSpace(chi.URLParam(r, "item_id"))
	if itemID == "" {
		api.BadRequest(w, "VALIDATION_ITEM_ID", "item_id is required", rid, nil)
		return
	}

	if err := a.Store.Remove(r.Context(), itemID); err != nil {
		a.writeErr(w, r, err)
		return
	}

	a.Events.Publish(analytics.SubjectWatchlistRemoved, "watchlist_removed", "",
		map[string]any{"item_id": itemID})

	api.WriteJSON(w, http.StatusOK, map[string]any{"message": "Item removed from watchlist"})
}

// getUserStats handles GET /api/stats/{user_id}
func (a *API) getUserStats(w http.ResponseWriter, r *http.Request) {
	rid := httpserver.RequestIDFromContext(r.Context())

	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))
	if userID == "" {
		api.BadRequest(w, "VALIDATION_USER_ID", "user_id is required", rid, nil)
		return
	}

	items, err := a.Store.List(r.Context(), userID, "")
	if err != nil {
		a.writeErr(w, r, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, watchlist.ComputeStats(userID, items))
}
