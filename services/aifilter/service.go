// Package aifilter implements the prompt-driven watch-history filter. A
// free-text prompt is routed to one of three strategies: a production-company
// lookup backed by the external metadata service, an LLM classifier, or a
// local heuristic matcher. The strategy that produced the result is reported
// alongside it so callers can surface degraded modes.
package aifilter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"reelog/models"
)

// Mode tags a filter result with the strategy that produced it.
type Mode string

const (
	// ModeAI means the LLM classifier produced the result.
	ModeAI Mode = "ai"
	// ModeBasic means the local heuristic matcher produced the result,
	// either as the default path or as a quota-degraded fallback.
	ModeBasic Mode = "basic"
	// ModeCompany means the production-company filter produced the result.
	ModeCompany Mode = "company"
	// ModeNone is returned for empty histories, where no strategy ran.
	ModeNone Mode = ""
)

// ErrPromptRequired rejects filter requests without a prompt.
var ErrPromptRequired = errors.New("prompt is required")

// MetadataGateway is the slice of the external metadata service the filter
// consumes: company search and per-title production credits.
type MetadataGateway interface {
	SearchCompany(ctx context.Context, name string) (int64, error)
	TitleCompanies(ctx context.Context, tmdbID int64, mediaType string) ([]Company, error)
}

// LLMGateway is a one-shot prompt classifier. Classify returns the raw
// completion text; quota rejections surface as ErrQuotaExceeded.
type LLMGateway interface {
	IsConfigured() bool
	Classify(ctx context.Context, prompt string, candidates []Candidate) (string, error)
}

// HistoryLister loads a user's full watch history.
type HistoryLister interface {
	List(userID string) ([]models.WatchItem, error)
}

var (
	_ MetadataGateway = (*TMDBClient)(nil)
	_ LLMGateway      = (*GeminiClient)(nil)
)

// Service orchestrates the filter strategies.
type Service struct {
	metadata MetadataGateway
	llm      LLMGateway
	history  HistoryLister
}

// NewService creates the filter orchestrator.
func NewService(metadata MetadataGateway, llm LLMGateway, history HistoryLister) *Service {
	return &Service{metadata: metadata, llm: llm, history: history}
}

// Filter returns the subset of the user's watch history matching the prompt,
// plus the mode that produced it.
//
// Company-style prompts go to the production-company filter and its result is
// final. Everything else computes the heuristic result up front, then tries
// the LLM: missing credentials or quota exhaustion degrade to the heuristic
// result (mode "basic"), a malformed LLM response reuses the heuristic id set
// (still mode "ai"), and any other LLM failure fails the request.
func (s *Service) Filter(ctx context.Context, userID, prompt string) ([]models.WatchItem, Mode, error) {
	if prompt == "" {
		return nil, ModeNone, ErrPromptRequired
	}

	items, err := s.history.List(userID)
	if err != nil {
		return nil, ModeNone, fmt.Errorf("load watch history: %w", err)
	}
	if len(items) == 0 {
		return []models.WatchItem{}, ModeNone, nil
	}

	classification := ClassifyPrompt(prompt)
	if classification.IsCompanyQuery {
		result, err := s.filterByCompany(ctx, classification.CompanyName, classification.MediaTypeHint, items)
		if err != nil {
			return nil, ModeNone, err
		}
		return result, ModeCompany, nil
	}

	// Computed eagerly: this is the credential-free fast path and the
	// fallback value for every recoverable LLM failure.
	heuristic := HeuristicFilter(prompt, items)

	if s.llm == nil || !s.llm.IsConfigured() {
		return heuristic, ModeBasic, nil
	}

	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, Candidate{
			ID:        item.ID,
			Title:     item.Title,
			MediaType: item.MediaType,
		})
	}

	raw, err := s.llm.Classify(ctx, prompt, candidates)
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) || errors.Is(err, ErrLLMNotConfigured) {
			log.Printf("[aifilter] llm unavailable, falling back to heuristic: %v", err)
			return heuristic, ModeBasic, nil
		}
		return nil, ModeNone, fmt.Errorf("llm classify: %w", err)
	}

	matchedIDs, ok := parseIDArray(StripCodeFences(raw))
	if !ok {
		// The model responded but not with a JSON array. Recover with the
		// heuristic id set; the LLM still answered, so the mode stays "ai".
		log.Printf("[aifilter] unparseable llm response, reusing heuristic ids")
		matchedIDs = make(map[string]struct{}, len(heuristic))
		for _, item := range heuristic {
			matchedIDs[item.ID] = struct{}{}
		}
	}

	result := make([]models.WatchItem, 0, len(matchedIDs))
	for _, item := range items {
		if _, matched := matchedIDs[item.ID]; matched {
			result = append(result, item)
		}
	}
	models.SortWatchItemsByDateDesc(result)
	return result, ModeAI, nil
}

// parseIDArray decodes a JSON array of ids. String and numeric elements are
// both accepted; anything that is not an array reports ok=false.
func parseIDArray(text string) (map[string]struct{}, bool) {
	var values []any
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return nil, false
	}

	ids := make(map[string]struct{}, len(values))
	for _, v := range values {
		switch id := v.(type) {
		case string:
			ids[id] = struct{}{}
		case float64:
			ids[strconv.FormatFloat(id, 'f', -1, 64)] = struct{}{}
		}
	}
	return ids, true
}
