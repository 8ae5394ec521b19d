package aifilter

import (
	"regexp"
	"strings"
)

// Classification is the result of inspecting a filter prompt. It decides
// whether the prompt names a production company and, independently, whether
// the prompt constrains the media type.
type Classification struct {
	IsCompanyQuery bool
	CompanyName    string
	MediaTypeHint  string // "movie" | "series" | ""
}

var (
	// Explicit company-intent phrases. Any of these marks the prompt as a
	// company query outright.
	companyIntentRe = regexp.MustCompile(`(?i)\bproduction\s+compan(?:y|ies)\b|\bproduced\s+by\b|\bdistributed\s+by\b|\bstudios?\b`)

	// Captures the phrase following an intent keyword, used to pull the
	// company name out of prompts like "movies produced by A24".
	companyCaptureRe = regexp.MustCompile(`(?i)\b(?:produced\s+by|distributed\s+by|from|by)\s+(.+)$`)

	// "<phrase> movies" style suffix. The leading phrase is a company-name
	// candidate unless it looks like a genre.
	companySuffixRe = regexp.MustCompile(`(?i)^(.*\S)\s+(?:movies?|films?|series|tv|shows?)$`)

	trailingMediaWordRe = regexp.MustCompile(`(?i)\s+(?:movies?|films?|series|tv|shows?)$`)

	movieTermRe  = regexp.MustCompile(`(?i)\b(?:movies?|films?)\b`)
	seriesTermRe = regexp.MustCompile(`(?i)\b(?:series|tv|shows?)\b`)
)

// genreWords are common genre terms that must not be mistaken for company
// names in the "<phrase> movies" pattern.
var genreWords = map[string]struct{}{
	"action": {}, "drama": {}, "comedy": {}, "horror": {}, "thriller": {},
	"crime": {}, "mystery": {}, "adventure": {}, "fantasy": {},
	"animation": {}, "anime": {}, "documentary": {}, "sci-fi": {},
	"science fiction": {}, "family": {}, "history": {}, "war": {},
	"music": {}, "musical": {}, "western": {}, "sport": {}, "sports": {},
	"biography": {},
}

// ClassifyPrompt decides whether a prompt is a production-company query and
// extracts the candidate company name and media-type hint. It is pure and
// performs no network calls.
func ClassifyPrompt(prompt string) Classification {
	prompt = strings.TrimSpace(prompt)
	c := Classification{MediaTypeHint: mediaTypeHint(prompt)}
	if prompt == "" {
		return c
	}

	// The suffix pattern is tried first so names that themselves contain an
	// intent word survive intact ("Studio Ghibli films").
	if m := companySuffixRe.FindStringSubmatch(prompt); m != nil {
		candidate := strings.TrimSpace(m[1])
		if isPlausibleCompanyName(candidate) {
			c.IsCompanyQuery = true
			c.CompanyName = candidate
			return c
		}
	}

	if companyIntentRe.MatchString(prompt) {
		c.IsCompanyQuery = true
		c.CompanyName = extractCompanyName(prompt)
	}

	return c
}

func mediaTypeHint(prompt string) string {
	switch {
	case movieTermRe.MatchString(prompt):
		return "movie"
	case seriesTermRe.MatchString(prompt):
		return "series"
	default:
		return ""
	}
}

// extractCompanyName pulls the company name out of a prompt that carries an
// explicit intent phrase. Prefer whatever follows the phrase; fall back to
// the whole prompt with intent phrases removed.
func extractCompanyName(prompt string) string {
	if m := companyCaptureRe.FindStringSubmatch(prompt); m != nil {
		return stripTrailingMediaWord(strings.TrimSpace(m[1]))
	}
	cleaned := companyIntentRe.ReplaceAllString(prompt, " ")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	return stripTrailingMediaWord(cleaned)
}

func stripTrailingMediaWord(s string) string {
	return strings.TrimSpace(trailingMediaWordRe.ReplaceAllString(s, ""))
}

// isPlausibleCompanyName rejects empty candidates, known genre words, and
// phrases too long to be a studio name.
func isPlausibleCompanyName(candidate string) bool {
	if candidate == "" {
		return false
	}
	if _, isGenre := genreWords[strings.ToLower(candidate)]; isGenre {
		return false
	}
	return len(strings.Fields(candidate)) <= 4
}
