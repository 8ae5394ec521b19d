package aifilter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

var (
	// ErrLLMNotConfigured means no Gemini credential is present. The filter
	// degrades to the heuristic matcher instead of failing.
	ErrLLMNotConfigured = errors.New("gemini api key not configured")
	// ErrQuotaExceeded classifies rate/usage rejections from the LLM. The
	// filter recovers from this locally; it is never surfaced to the caller.
	ErrQuotaExceeded = errors.New("gemini quota exceeded")
)

var quotaMessageRe = regexp.MustCompile(`(?i)quota|too many requests|rate limit`)

// Candidate is the reduced watch-item view embedded in the classification
// prompt to bound payload size.
type Candidate struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	MediaType string `json:"mediaType"`
}

// GeminiClient runs one-shot classification prompts against the Gemini API.
// It implements LLMGateway.
type GeminiClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewGeminiClient creates a Gemini client. A nil http client gets a sane default.
func NewGeminiClient(apiKey string, httpc *http.Client) *GeminiClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &GeminiClient{apiKey: strings.TrimSpace(apiKey), baseURL: geminiBaseURL, httpc: httpc}
}

// IsConfigured reports whether an API key is present.
func (c *GeminiClient) IsConfigured() bool {
	return c.apiKey != ""
}

// geminiRequest is the request body for the Gemini generateContent API.
type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// geminiResponse is the response from the Gemini generateContent API.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Classify asks the model which candidates match the user's prompt and
// returns the raw completion text. Quota rejections come back as
// ErrQuotaExceeded; every other failure is an ordinary error.
func (c *GeminiClient) Classify(ctx context.Context, prompt string, candidates []Candidate) (string, error) {
	if !c.IsConfigured() {
		return "", ErrLLMNotConfigured
	}

	candidateList, err := json.Marshal(candidates)
	if err != nil {
		return "", fmt.Errorf("marshal candidates: %w", err)
	}

	instruction := fmt.Sprintf(`You are filtering a user's personal watch history. The user asked:

"%s"

Here is the watch history as a JSON array of {id, title, mediaType} objects:

%s

Return the ids of every item that matches the user's request.

Respond with ONLY a raw JSON array of id strings, no markdown, no prose.
Example format:
["id1", "id2"]`, prompt, candidateList)

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: instruction}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature:     0.2,
			MaxOutputTokens: 1024,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/gemini-2.5-flash:generateContent?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create gemini request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ErrQuotaExceeded
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if quotaMessageRe.MatchString(string(body)) {
			return "", ErrQuotaExceeded
		}
		return "", fmt.Errorf("gemini API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}

	if geminiResp.Error != nil {
		if geminiResp.Error.Code == http.StatusTooManyRequests || quotaMessageRe.MatchString(geminiResp.Error.Message) {
			return "", ErrQuotaExceeded
		}
		return "", fmt.Errorf("gemini API error: %s", geminiResp.Error.Message)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini returned empty response")
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}

// StripCodeFences removes optional surrounding markdown code-fence markers
// from an LLM response.
func StripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
