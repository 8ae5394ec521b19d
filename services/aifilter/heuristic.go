package aifilter

import (
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"reelog/models"
)

// The heuristic matcher is the always-available baseline: a local keyword and
// intent filter over the watch history, used both as the fast path when no
// LLM credential exists and as the fallback when the LLM is rate limited.

var (
	heuristicTokenCleanRe = regexp.MustCompile(`[^a-z0-9 &'\-]+`)

	wantsMovieRe     = regexp.MustCompile(`\b(?:movies?|films?)\b`)
	wantsSeriesRe    = regexp.MustCompile(`\b(?:series|tv|shows?)\b`)
	wantsAnimeRe     = regexp.MustCompile(`\banime\b`)
	wantsAnimationRe = regexp.MustCompile(`\b(?:animated|animation)\b`)
)

// heuristicStopWords covers articles, connectives, and the intent vocabulary
// already consumed by the media-type and sub-type checks.
var heuristicStopWords = map[string]struct{}{
	"show": {}, "shows": {}, "movie": {}, "movies": {}, "series": {},
	"film": {}, "films": {}, "tv": {}, "anime": {}, "animated": {},
	"animation": {}, "the": {}, "a": {}, "an": {}, "by": {}, "from": {},
}

// HeuristicFilter returns the subset of items matching the prompt's intent
// and keywords, most recently watched first. It never touches the network.
func HeuristicFilter(prompt string, items []models.WatchItem) []models.WatchItem {
	normalized := normalizePromptText(prompt)

	wantsMovie := wantsMovieRe.MatchString(normalized)
	wantsSeries := wantsSeriesRe.MatchString(normalized)
	wantsAnime := wantsAnimeRe.MatchString(normalized)
	wantsAnimation := wantsAnimationRe.MatchString(normalized)

	tokens := promptTokens(normalized)

	matched := make([]models.WatchItem, 0, len(items))
	for _, item := range items {
		if wantsMovie && item.MediaType != models.MediaTypeMovie {
			continue
		}
		if wantsSeries && !wantsMovie && item.MediaType != models.MediaTypeSeries {
			continue
		}
		if wantsAnime && item.SubType != models.SubTypeAnime {
			continue
		}
		if wantsAnimation && item.SubType != models.SubTypeAnimation && item.SubType != models.SubTypeAnime {
			continue
		}
		if len(tokens) > 0 && !itemMatchesTokens(item, tokens) {
			continue
		}
		matched = append(matched, item)
	}

	models.SortWatchItemsByDateDesc(matched)
	return matched
}

// normalizePromptText lowercases and ASCII-folds the prompt, then strips
// punctuation except the characters that appear in real titles and company
// names (&, ', -).
func normalizePromptText(prompt string) string {
	s := strings.ToLower(unidecode.Unidecode(prompt))
	s = heuristicTokenCleanRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

func promptTokens(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, stop := heuristicStopWords[f]; stop {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// itemMatchesTokens reports whether every token appears in at least one of
// the item's title, genre names, or origin country.
func itemMatchesTokens(item models.WatchItem, tokens []string) bool {
	title := strings.ToLower(unidecode.Unidecode(item.Title))

	genreNames := make([]string, 0, len(item.Genres))
	for _, g := range item.Genres {
		genreNames = append(genreNames, g.Name)
	}
	genres := strings.ToLower(strings.Join(genreNames, " "))
	country := strings.ToLower(item.OriginCountry)

	for _, token := range tokens {
		if strings.Contains(title, token) ||
			strings.Contains(genres, token) ||
			strings.Contains(country, token) {
			continue
		}
		return false
	}
	return true
}
