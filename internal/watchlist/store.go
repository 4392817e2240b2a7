package watchlist

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Viewing statuses. Anything else is normalized to StatusPlanToWatch.
const (
	StatusWatching    = "watching"
	StatusCompleted   = "completed"
	StatusPlanToWatch = "plan_to_watch"
	StatusDropped     = "dropped"
	StatusOnHold      = "on_hold"
)

// Sentinel errors
var (
	ErrDuplicate = errors.New("anime already in watchlist")
	ErrNotFound  = errors.New("watchlist item not found")
)

// Item is one tracked anime in a user's watchlist.
type Item struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	MalID          int        `json:"mal_id"`
	AnimeTitle     string     `json:"anime_title"`
	Status         string     `json:"status"`
	CurrentEpisode int        `json:"current_episode"`
	TotalEpisodes  *int       `json:"total_episodes,omitempty"`
	Score          *int       `json:"score,omitempty"`
	StartDate      *time.Time `json:"start_date,omitempty"`
	FinishDate     *time.Time `json:"finish_date,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Update carries a partial mutation; nil fields are left untouched.
type Update struct {
	Status         *string    `json:"status"`
	CurrentEpisode *int       `json:"current_episode"`
	Score          *int       `json:"score"`
	Notes          *string    `json:"notes"`
	FinishDate     *time.Time `json:"finish_date"`
}

// Store defines the contract for watchlist persistence.
type Store interface {
	// Add inserts a new item, generating its id and timestamps.
	// Fails with ErrDuplicate if (user_id, mal_id) already exists.
	Add(ctx context.Context, it Item) (Item, error)
	// List returns a user's items, optionally filtered to one status,
	// ordered by updated_at descending.
	List(ctx context.Context, userID, status string) ([]Item, error)
	// Update merges the supplied fields into the item and refreshes
	// updated_at. Fails with ErrNotFound if no item has that id.
	Update(ctx context.Context, itemID string, upd Update) (Item, error)
	// Remove deletes the item. Fails with ErrNotFound if no item has that id.
	Remove(ctx context.Context, itemID string) error
}

// ValidStatus reports whether s is one of the five viewing statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusWatching, StatusCompleted, StatusPlanToWatch, StatusDropped, StatusOnHold:
		return true
	}
	return false
}

// NormalizeStatus lowercases and trims s; unknown values map to plan_to_watch.
func NormalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if ValidStatus(s) {
		return s
	}
	return StatusPlanToWatch
}
