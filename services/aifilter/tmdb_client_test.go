package aifilter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestTMDBClient(t *testing.T, handler http.HandlerFunc) *TMDBClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewTMDBClient("test-key", srv.Client())
	c.baseURL = srv.URL
	return c
}

func TestSearchCompanyReturnsFirstResult(t *testing.T) {
	client := newTestTMDBClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/company" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "A24" {
			t.Errorf("query = %q", got)
		}
		w.Write([]byte(`{"results":[{"id":41077,"name":"A24"},{"id":99,"name":"A24 Films"}]}`))
	})

	id, err := client.SearchCompany(context.Background(), "A24")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 41077 {
		t.Errorf("id = %d, want 41077", id)
	}
}

func TestSearchCompanyNoResults(t *testing.T) {
	client := newTestTMDBClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})

	id, err := client.SearchCompany(context.Background(), "Nonexistent")
	if err != nil {
		t.Fatalf("no results should not be an error: %v", err)
	}
	if id != 0 {
		t.Errorf("id = %d, want 0", id)
	}
}

func TestSearchCompanyHTTPError(t *testing.T) {
	client := newTestTMDBClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_message":"Invalid API key"}`))
	})

	if _, err := client.SearchCompany(context.Background(), "A24"); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}

func TestTitleCompaniesMoviePath(t *testing.T) {
	client := newTestTMDBClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/27205" {
			t.Errorf("path = %s, want /movie/27205", r.URL.Path)
		}
		w.Write([]byte(`{"production_companies":[{"id":923,"name":"Legendary Pictures"}]}`))
	})

	companies, err := client.TitleCompanies(context.Background(), 27205, "movie")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(companies) != 1 || companies[0].ID != 923 {
		t.Errorf("companies = %v", companies)
	}
}

func TestTitleCompaniesSeriesPath(t *testing.T) {
	client := newTestTMDBClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/1396" {
			t.Errorf("path = %s, want /tv/1396", r.URL.Path)
		}
		w.Write([]byte(`{"production_companies":[]}`))
	})

	if _, err := client.TitleCompanies(context.Background(), 1396, "series"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTMDBClientUnconfigured(t *testing.T) {
	client := NewTMDBClient("", nil)

	if _, err := client.SearchCompany(context.Background(), "A24"); !errors.Is(err, ErrMetadataNotConfigured) {
		t.Errorf("SearchCompany: expected ErrMetadataNotConfigured, got %v", err)
	}
	if _, err := client.TitleCompanies(context.Background(), 1, "movie"); !errors.Is(err, ErrMetadataNotConfigured) {
		t.Errorf("TitleCompanies: expected ErrMetadataNotConfigured, got %v", err)
	}
}
