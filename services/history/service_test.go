package history_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"reelog/internal/database"
	"reelog/models"
	"reelog/services/history"
)

func newTestService(t *testing.T) *history.Service {
	t.Helper()
	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	for _, id := range []string{"u1", "u2"} {
		err := db.Users.CreateUser(&models.User{
			ID:           id,
			Username:     id,
			Email:        id + "@example.com",
			PasswordHash: "x",
		})
		if err != nil {
			t.Fatalf("seed user %s: %v", id, err)
		}
	}
	return history.NewService(db.WatchItems)
}

func movieInput(title string, tmdbID int64) history.AddInput {
	return history.AddInput{
		Title:     title,
		TmdbID:    tmdbID,
		MediaType: models.MediaTypeMovie,
		Rating:    4,
	}
}

func TestAddDefaultsSubType(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Add("u1", movieInput("Heat", 949))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if item.SubType != models.SubTypeLiveAction {
		t.Errorf("sub type = %q, want live_action", item.SubType)
	}
	if item.ID == "" {
		t.Error("expected generated id")
	}
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		input history.AddInput
		want  error
	}{
		{"missing title", history.AddInput{MediaType: "movie"}, history.ErrTitleRequired},
		{"bad media type", history.AddInput{Title: "x", MediaType: "podcast"}, history.ErrInvalidMediaType},
		{"bad sub type", history.AddInput{Title: "x", MediaType: "movie", SubType: "puppet"}, history.ErrInvalidSubType},
		{"rating too high", history.AddInput{Title: "x", MediaType: "movie", Rating: 6}, history.ErrInvalidRating},
		{"rating negative", history.AddInput{Title: "x", MediaType: "movie", Rating: -1}, history.ErrInvalidRating},
	}

	for _, tt := range tests {
		if _, err := svc.Add("u1", tt.input); !errors.Is(err, tt.want) {
			t.Errorf("%s: got %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestAddDuplicate(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Add("u1", movieInput("Heat", 949)); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	if _, err := svc.Add("u1", movieInput("Heat", 949)); !errors.Is(err, history.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateOwnership(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Add("u1", movieInput("Heat", 949))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	rating := 2
	_, err = svc.Update("u2", item.ID, models.WatchItemUpdate{Rating: &rating})
	if !errors.Is(err, history.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	updated, err := svc.Update("u1", item.ID, models.WatchItemUpdate{Rating: &rating})
	if err != nil {
		t.Fatalf("owner Update failed: %v", err)
	}
	if updated.Rating != 2 {
		t.Errorf("rating = %d, want 2", updated.Rating)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Add("u1", movieInput("Heat", 949))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	notes := "great ensemble"
	favorite := true
	watched := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Update("u1", item.ID, models.WatchItemUpdate{
		UserNotes:  &notes,
		IsFavorite: &favorite,
		WatchDate:  &watched,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.UserNotes != notes || !updated.IsFavorite {
		t.Errorf("updated = %+v", updated)
	}
	// Untouched fields keep their values.
	if updated.Rating != 4 {
		t.Errorf("rating changed unexpectedly: %d", updated.Rating)
	}
}

func TestUpdateMissingItem(t *testing.T) {
	svc := newTestService(t)

	rating := 1
	_, err := svc.Update("u1", "missing", models.WatchItemUpdate{Rating: &rating})
	if !errors.Is(err, history.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestDeleteOwnership(t *testing.T) {
	svc := newTestService(t)

	item, err := svc.Add("u1", movieInput("Heat", 949))
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if err := svc.Delete("u2", item.ID); !errors.Is(err, history.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete("u1", item.ID); err != nil {
		t.Fatalf("owner Delete failed: %v", err)
	}
	if err := svc.Delete("u1", item.ID); !errors.Is(err, history.ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound after delete, got %v", err)
	}
}

func TestClearByMediaType(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Add("u1", movieInput("Heat", 949)); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	series := history.AddInput{Title: "Breaking Bad", TmdbID: 1396, MediaType: models.MediaTypeSeries}
	if _, err := svc.Add("u1", series); err != nil {
		t.Fatalf("Add series failed: %v", err)
	}

	removed, err := svc.Clear("u1", []string{models.MediaTypeSeries})
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	items, err := svc.List("u1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "Heat" {
		t.Errorf("remaining items = %v", items)
	}
}

func TestStats(t *testing.T) {
	svc := newTestService(t)

	movie := movieInput("Heat", 949)
	movie.WatchTimeMinutes = 170
	movie.IsFavorite = true
	if _, err := svc.Add("u1", movie); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	series := history.AddInput{
		Title:            "Breaking Bad",
		TmdbID:           1396,
		MediaType:        models.MediaTypeSeries,
		Rating:           2,
		WatchTimeMinutes: 90,
	}
	if _, err := svc.Add("u1", series); err != nil {
		t.Fatalf("Add series failed: %v", err)
	}

	stats, err := svc.Stats("u1")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 2 || stats.Movies != 1 || stats.Series != 1 {
		t.Errorf("counts = %+v", stats)
	}
	if stats.Favorites != 1 {
		t.Errorf("favorites = %d", stats.Favorites)
	}
	if stats.WatchTimeMinutes != 260 {
		t.Errorf("watch time = %d", stats.WatchTimeMinutes)
	}
	if stats.AverageRating != 3.0 {
		t.Errorf("average rating = %v, want 3.0", stats.AverageRating)
	}
}
