package jikan

// AnimeSummary is the service's stable catalog entry shape. Optional
// scalar fields keep upstream nulls; list fields are never null.
type AnimeSummary struct {
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
}

// AnimeDetail is AnimeSummary plus the fields only the detail endpoint carries.
type AnimeDetail struct {
	AnimeSummary
	Trailer   map[string]any `json:"trailer"`
	Aired     map[string]any `json:"aired"`
	Duration  *string        `json:"duration"`
	Rating    *string        `json:"rating"`
	Source    *string        `json:"source"`
	Studios   []Tag          `json:"studios"`
	Producers []Tag          `json:"producers"`
	Licensors []Tag          `json:"licensors"`
}

// ToSummary maps one upstream data block into the internal summary shape.
func ToSummary(d AnimeData) AnimeSummary {
	return AnimeSummary{
		MalID:         d.MalID,
		Title:         d.Title,
		TitleEnglish:  d.TitleEnglish,
		TitleJapanese: d.TitleJapanese,
		Type:          d.Type,
		Episodes:      d.Episodes,
		Status:        d.Status,
		Year:          d.Year,
		Season:        d.Season,
		Score:         d.Score,
		ScoredBy:      d.ScoredBy,
		Rank:          d.Rank,
		Popularity:    d.Popularity,
		Synopsis:      d.Synopsis,
		Background:    d.Background,
		Images:        d.Images,
		Genres:        tagList(d.Genres),
		Themes:        tagList(d.Themes),
		Demographics:  tagList(d.Demographics),
	}
}

// ToSummaries maps a list, preserving upstream ordering and count.
func ToSummaries(list []AnimeData) []AnimeSummary {
	out := make([]AnimeSummary, len(list))
	for i, d := range list {
		out[i] = ToSummary(d)
	}
	return out
}

// ToDetail maps one upstream data block into the internal detail shape.
func ToDetail(d AnimeData) AnimeDetail {
	return AnimeDetail{
		AnimeSummary: ToSummary(d),
		Trailer:      d.Trailer,
		Aired:        d.Aired,
		Duration:     d.Duration,
		Rating:       d.Rating,
		Source:       d.Source,
		Studios:      tagList(d.Studios),
		Producers:    tagList(d.Producers),
		Licensors:    tagList(d.Licensors),
	}
}

// BestTitle prefers the English title, then the default, then Japanese.
func BestTitle(d AnimeData) string {
	if d.TitleEnglish != nil && *d.TitleEnglish != "" {
		return *d.TitleEnglish
	}
	if d.Title != "" {
		return d.Title
	}
	if d.TitleJapanese != nil {
		return *d.TitleJapanese
	}
	return ""
}

func tagList(in []Tag) []Tag {
	if in == nil {
		return []Tag{}
	}
	return in
}
