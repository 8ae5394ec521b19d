package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reelog/internal/database"
	"reelog/models"
)

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrInvalidMediaType = errors.New("mediaType must be movie or series")
	ErrInvalidSubType   = errors.New("invalid subType")
	ErrInvalidRating    = errors.New("rating must be between 0 and 5")
	ErrAlreadyExists    = errors.New("item already in watch history")
	ErrItemNotFound     = errors.New("watch item not found")
	ErrNotOwner         = errors.New("not authorized")
)

// AddInput captures the payload for adding a watch item.
type AddInput struct {
	TmdbID           int64               `json:"tmdbId"`
	MediaType        string              `json:"mediaType"`
	SubType          string              `json:"subType"`
	Title            string              `json:"title"`
	PosterPath       string              `json:"posterPath"`
	OriginCountry    string              `json:"originCountry"`
	ReleaseDate      string              `json:"releaseDate"`
	Genres           []models.Genre      `json:"genres"`
	Rating           int                 `json:"rating"`
	UserNotes        string              `json:"userNotes"`
	IsFavorite       bool                `json:"isFavorite"`
	WatchDate        *time.Time          `json:"watchDate"`
	WatchTimeMinutes int                 `json:"watchTimeMinutes"`
	Runtime          int                 `json:"runtime"`
	Seasons          int                 `json:"seasons"`
	Episodes         int                 `json:"episodes"`
	EpisodeDuration  int                 `json:"episodeDuration"`
	WatchedSeasons   []int               `json:"watchedSeasons"`
	WatchedEpisodes  []models.EpisodeRef `json:"watchedEpisodes"`
}

// Service manages a user's watch history.
type Service struct {
	repo *database.WatchItemRepository
}

// NewService creates a history service over the watch item repository.
func NewService(repo *database.WatchItemRepository) *Service {
	return &Service{repo: repo}
}

// List returns the user's watch history, most recently watched first.
func (s *Service) List(userID string) ([]models.WatchItem, error) {
	return s.repo.ListByUser(userID)
}

// Add stores a new watch item for the user. The (user, tmdbId, mediaType)
// pair must be unique.
func (s *Service) Add(userID string, input AddInput) (models.WatchItem, error) {
	if input.Title == "" {
		return models.WatchItem{}, ErrTitleRequired
	}
	if input.MediaType != models.MediaTypeMovie && input.MediaType != models.MediaTypeSeries {
		return models.WatchItem{}, ErrInvalidMediaType
	}
	subType := input.SubType
	if subType == "" {
		subType = models.SubTypeLiveAction
	}
	switch subType {
	case models.SubTypeAnime, models.SubTypeAnimation, models.SubTypeDocumentary, models.SubTypeLiveAction:
	default:
		return models.WatchItem{}, ErrInvalidSubType
	}
	if input.Rating < 0 || input.Rating > 5 {
		return models.WatchItem{}, ErrInvalidRating
	}
	if input.WatchTimeMinutes < 0 {
		input.WatchTimeMinutes = 0
	}

	item := models.WatchItem{
		ID:               uuid.NewString(),
		UserID:           userID,
		TmdbID:           input.TmdbID,
		MediaType:        input.MediaType,
		SubType:          subType,
		Title:            input.Title,
		PosterPath:       input.PosterPath,
		OriginCountry:    input.OriginCountry,
		ReleaseDate:      input.ReleaseDate,
		Genres:           input.Genres,
		Rating:           input.Rating,
		UserNotes:        input.UserNotes,
		IsFavorite:       input.IsFavorite,
		WatchDate:        input.WatchDate,
		WatchTimeMinutes: input.WatchTimeMinutes,
		Runtime:          input.Runtime,
		Seasons:          input.Seasons,
		Episodes:         input.Episodes,
		EpisodeDuration:  input.EpisodeDuration,
		WatchedSeasons:   input.WatchedSeasons,
		WatchedEpisodes:  input.WatchedEpisodes,
	}

	if err := s.repo.Insert(&item); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return models.WatchItem{}, ErrAlreadyExists
		}
		return models.WatchItem{}, fmt.Errorf("add watch item: %w", err)
	}
	return item, nil
}

// Update applies a partial update to a watch item owned by the user.
func (s *Service) Update(userID, itemID string, update models.WatchItemUpdate) (models.WatchItem, error) {
	item, err := s.repo.Get(itemID)
	if err != nil {
		return models.WatchItem{}, err
	}
	if item == nil {
		return models.WatchItem{}, ErrItemNotFound
	}
	if item.UserID != userID {
		return models.WatchItem{}, ErrNotOwner
	}

	if update.Rating != nil {
		if *update.Rating < 0 || *update.Rating > 5 {
			return models.WatchItem{}, ErrInvalidRating
		}
		item.Rating = *update.Rating
	}
	if update.UserNotes != nil {
		item.UserNotes = *update.UserNotes
	}
	if update.IsFavorite != nil {
		item.IsFavorite = *update.IsFavorite
	}
	if update.WatchDate != nil {
		item.WatchDate = update.WatchDate
	}
	if update.WatchedSeasons != nil {
		item.WatchedSeasons = *update.WatchedSeasons
	}
	if update.WatchedEpisodes != nil {
		item.WatchedEpisodes = *update.WatchedEpisodes
	}
	if update.WatchTimeMinutes != nil && *update.WatchTimeMinutes >= 0 {
		item.WatchTimeMinutes = *update.WatchTimeMinutes
	}

	if err := s.repo.Update(item); err != nil {
		return models.WatchItem{}, err
	}
	return *item, nil
}

// Delete removes a watch item owned by the user.
func (s *Service) Delete(userID, itemID string) error {
	item, err := s.repo.Get(itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}
	if item.UserID != userID {
		return ErrNotOwner
	}
	return s.repo.Delete(itemID)
}

// Clear removes all of a user's watch items, optionally restricted to the
// given media types. Returns the number of removed items.
func (s *Service) Clear(userID string, mediaTypes []string) (int64, error) {
	return s.repo.DeleteByUser(userID, mediaTypes)
}

// Stats aggregates the user's history for the dashboard.
func (s *Service) Stats(userID string) (models.HistoryStats, error) {
	items, err := s.repo.ListByUser(userID)
	if err != nil {
		return models.HistoryStats{}, err
	}

	var stats models.HistoryStats
	var ratingSum, rated int
	for _, item := range items {
		stats.Total++
		switch item.MediaType {
		case models.MediaTypeMovie:
			stats.Movies++
		case models.MediaTypeSeries:
			stats.Series++
		}
		if item.IsFavorite {
			stats.Favorites++
		}
		stats.WatchTimeMinutes += item.WatchTimeMinutes
		if item.Rating > 0 {
			ratingSum += item.Rating
			rated++
		}
	}
	if rated > 0 {
		stats.AverageRating = float64(ratingSum) / float64(rated)
	}
	return stats, nil
}
