package aifilter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

// ErrMetadataNotConfigured is returned when the metadata API credential is
// missing. The company-query branch surfaces this as a configuration error.
var ErrMetadataNotConfigured = errors.New("tmdb api key not configured")

// Company is a production company credit on a title.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TMDBClient talks to the external movie-metadata service. It implements
// MetadataGateway.
type TMDBClient struct {
	apiKey  string
	baseURL string
	httpc   *http.Client
}

// NewTMDBClient creates a TMDB client. A nil http client gets a sane default.
func NewTMDBClient(apiKey string, httpc *http.Client) *TMDBClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	return &TMDBClient{apiKey: strings.TrimSpace(apiKey), baseURL: tmdbBaseURL, httpc: httpc}
}

// IsConfigured reports whether an API key is present.
func (c *TMDBClient) IsConfigured() bool {
	return c.apiKey != ""
}

// SearchCompany resolves a company name to its TMDB company ID. Returns 0
// when the search succeeds but finds no candidate.
func (c *TMDBClient) SearchCompany(ctx context.Context, name string) (int64, error) {
	if !c.IsConfigured() {
		return 0, ErrMetadataNotConfigured
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", name)

	var resp struct {
		Results []Company `json:"results"`
	}
	if err := c.doGET(ctx, c.baseURL+"/search/company?"+q.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("tmdb company search: %w", err)
	}
	if len(resp.Results) == 0 {
		return 0, nil
	}
	return resp.Results[0].ID, nil
}

// TitleCompanies fetches the production companies credited on a title.
func (c *TMDBClient) TitleCompanies(ctx context.Context, tmdbID int64, mediaType string) ([]Company, error) {
	if !c.IsConfigured() {
		return nil, ErrMetadataNotConfigured
	}

	path := "movie"
	if mediaType == "series" {
		path = "tv"
	}

	q := url.Values{}
	q.Set("api_key", c.apiKey)

	var resp struct {
		ProductionCompanies []Company `json:"production_companies"`
	}
	endpoint := fmt.Sprintf("%s/%s/%d?%s", c.baseURL, path, tmdbID, q.Encode())
	if err := c.doGET(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("tmdb title details: %w", err)
	}
	return resp.ProductionCompanies, nil
}

func (c *TMDBClient) doGET(ctx context.Context, endpoint string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
