package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Media types for watch items.
const (
	MediaTypeMovie  = "movie"
	MediaTypeSeries = "series"
)

// Secondary classification, orthogonal to media type.
const (
	SubTypeAnime       = "anime"
	SubTypeAnimation   = "animation"
	SubTypeDocumentary = "documentary"
	SubTypeLiveAction  = "live_action"
)

// Genre is a TMDB genre reference attached to a watch item.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EpisodeRef identifies a single watched episode. The wire format accepts both
// the canonical "S<season>E<episode>" string and the legacy
// {"season": n, "episode": m} object; it always re-encodes as the string form.
type EpisodeRef struct {
	Season  int
	Episode int
}

// String returns the canonical token, e.g. "S1E2".
func (e EpisodeRef) String() string {
	return fmt.Sprintf("S%dE%d", e.Season, e.Episode)
}

// MarshalJSON encodes the canonical string token.
func (e EpisodeRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON decodes either a "S1E2" token or a legacy {season, episode}
// object into the canonical form.
func (e *EpisodeRef) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var token string
		if err := json.Unmarshal(data, &token); err != nil {
			return err
		}
		ref, ok := ParseEpisodeToken(token)
		if !ok {
			return fmt.Errorf("invalid episode token %q", token)
		}
		*e = ref
		return nil
	}

	var legacy struct {
		Season  int `json:"season"`
		Episode int `json:"episode"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return err
	}
	*e = EpisodeRef{Season: legacy.Season, Episode: legacy.Episode}
	return nil
}

// ParseEpisodeToken parses a "S<season>E<episode>" token (case-insensitive).
func ParseEpisodeToken(token string) (EpisodeRef, bool) {
	token = strings.TrimSpace(strings.ToUpper(token))
	if !strings.HasPrefix(token, "S") {
		return EpisodeRef{}, false
	}
	rest := token[1:]
	idx := strings.Index(rest, "E")
	if idx <= 0 || idx == len(rest)-1 {
		return EpisodeRef{}, false
	}
	var season, episode int
	if _, err := fmt.Sscanf(rest[:idx], "%d", &season); err != nil {
		return EpisodeRef{}, false
	}
	if _, err := fmt.Sscanf(rest[idx+1:], "%d", &episode); err != nil {
		return EpisodeRef{}, false
	}
	return EpisodeRef{Season: season, Episode: episode}, true
}

// WatchItem is a single user's record of having watched a movie or series.
type WatchItem struct {
	ID        string `json:"_id"`
	UserID    string `json:"user"`
	TmdbID    int64  `json:"tmdbId"`
	MediaType string `json:"mediaType"` // movie | series
	SubType   string `json:"subType"`   // anime | animation | documentary | live_action

	Title         string  `json:"title"`
	PosterPath    string  `json:"posterPath,omitempty"`
	OriginCountry string  `json:"originCountry,omitempty"`
	ReleaseDate   string  `json:"releaseDate,omitempty"`
	Genres        []Genre `json:"genres"`

	Rating     int        `json:"rating"`
	UserNotes  string     `json:"userNotes"`
	IsFavorite bool       `json:"isFavorite"`
	WatchDate  *time.Time `json:"watchDate"`

	WatchTimeMinutes int `json:"watchTimeMinutes"`

	// Movie-only
	Runtime int `json:"runtime,omitempty"`

	// Series-only
	Seasons         int          `json:"seasons,omitempty"`
	Episodes        int          `json:"episodes,omitempty"`
	EpisodeDuration int          `json:"episodeDuration,omitempty"`
	WatchedSeasons  []int        `json:"watchedSeasons"`
	WatchedEpisodes []EpisodeRef `json:"watchedEpisodes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WatchItemUpdate carries the mutable subset of a watch item. Nil fields are
// left unchanged.
type WatchItemUpdate struct {
	Rating           *int          `json:"rating"`
	UserNotes        *string       `json:"userNotes"`
	IsFavorite       *bool         `json:"isFavorite"`
	WatchDate        *time.Time    `json:"watchDate"`
	WatchedSeasons   *[]int        `json:"watchedSeasons"`
	WatchedEpisodes  *[]EpisodeRef `json:"watchedEpisodes"`
	WatchTimeMinutes *int          `json:"watchTimeMinutes"`
}

// SortWatchItemsByDateDesc orders items by watch date descending. Items with a
// missing watch date sort as earliest (last).
func SortWatchItemsByDateDesc(items []WatchItem) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, tj := items[i].WatchDate, items[j].WatchDate
		if ti == nil && tj == nil {
			return false
		}
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})
}

// HistoryStats summarizes a user's watch history for the dashboard.
type HistoryStats struct {
	Total            int     `json:"total"`
	Movies           int     `json:"movies"`
	Series           int     `json:"series"`
	Favorites        int     `json:"favorites"`
	WatchTimeMinutes int     `json:"watchTimeMinutes"`
	AverageRating    float64 `json:"averageRating"`
}
