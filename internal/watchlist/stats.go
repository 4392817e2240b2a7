package watchlist

// UserStats is derived on demand from a user's full watchlist; it is
// never persisted.
type UserStats struct {
	UserID          string   `json:"user_id"`
	TotalAnime      int      `json:"total_anime"`
	Watching        int      `json:"watching"`
	Completed       int      `json:"completed"`
	PlanToWatch     int      `json:"plan_to_watch"`
	Dropped         int      `json:"dropped"`
	OnHold          int      `json:"on_hold"`
	EpisodesWatched int      `json:"episodes_watched"`
	AverageScore    *float64 `json:"average_score"`
	// GenresDistribution stays empty: items never denormalize genre tags.
	GenresDistribution map[string]int `json:"genres_distribution"`
}

// ComputeStats tallies a user's items in a single pass. Items with an
// unrecognized or missing status count as plan_to_watch. With zero items
// everything is zero and the average score is absent.
func ComputeStats(userID string, items []Item) UserStats {
	stats := UserStats{
		UserID:             userID,
		TotalAnime:         len(items),
		GenresDistribution: map[string]int{},
	}

	var scoreSum, scoreCount int
	for _, it := range items {
		switch it.Status {
		case StatusWatching:
			stats.Watching++
		case StatusCompleted:
			stats.Completed++
		case StatusDropped:
			stats.Dropped++
		case StatusOnHold:
			stats.OnHold++
		default:
			stats.PlanToWatch++
		}

		stats.EpisodesWatched += it.CurrentEpisode

		if it.Score != nil {
			scoreSum += *it.Score
			scoreCount++
		}
	}

	if scoreCount > 0 {
		avg := float64(scoreSum) / float64(scoreCount)
		stats.AverageScore = &avg
	}
	return stats
}
