package jikan

import (
	"context"
	"encoding/json"
)

// Provider is the port for fetching anime data from the Jikan/MAL API.
type Provider interface {
	Search(ctx context.Context, p SearchParams) (*SearchPage, error)
	GetAnime(ctx context.Context, malID int) (*AnimeData, error)
	Episodes(ctx context.Context, malID, page int) (json.RawMessage, error)
	Recommendations(ctx context.Context, malID int) (json.RawMessage, error)
	Season(ctx context.Context, year int, season string) (json.RawMessage, error)
	CurrentSeason(ctx context.Context) (json.RawMessage, error)
	TopAnime(ctx context.Context, animeType string, page int) (json.RawMessage, error)
	Genres(ctx context.Context) (json.RawMessage, error)
}
