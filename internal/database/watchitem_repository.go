package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"reelog/models"
)

var (
	// ErrDuplicate indicates an insert violated a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")
)

// WatchItemRepository provides CRUD access to the watch_items table. The
// list-valued fields (genres, watched seasons, watched episodes) are stored as
// JSON documents; watched episodes are decoded through the tagged-union
// unmarshaler so legacy {season, episode} records load transparently.
type WatchItemRepository struct {
	db *sql.DB
}

// NewWatchItemRepository creates a watch item repository over the given connection.
func NewWatchItemRepository(db *sql.DB) *WatchItemRepository {
	return &WatchItemRepository{db: db}
}

const watchItemColumns = `id, user_id, tmdb_id, media_type, sub_type, title,
	poster_path, origin_country, release_date, genres, rating, user_notes,
	is_favorite, watch_date, watch_time_minutes, runtime, seasons, episodes,
	episode_duration, watched_seasons, watched_episodes, created_at, updated_at`

// ListByUser returns all watch items owned by the user, most recently watched
// first. Items without a watch date sort last.
func (r *WatchItemRepository) ListByUser(userID string) ([]models.WatchItem, error) {
	rows, err := r.db.Query(`
		SELECT `+watchItemColumns+`
		FROM watch_items WHERE user_id = ?
		ORDER BY watch_date IS NULL, watch_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list watch items: %w", err)
	}
	defer rows.Close()

	items := make([]models.WatchItem, 0)
	for rows.Next() {
		item, err := scanWatchItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Get returns the watch item with the given ID, or nil if absent.
func (r *WatchItemRepository) Get(id string) (*models.WatchItem, error) {
	rows, err := r.db.Query(`
		SELECT `+watchItemColumns+`
		FROM watch_items WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get watch item: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	item, err := scanWatchItem(rows)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Insert stores a new watch item. Returns ErrDuplicate when the user already
// has an item with the same TMDB ID and media type.
func (r *WatchItemRepository) Insert(item *models.WatchItem) error {
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = item.CreatedAt

	genres, seasons, episodes, err := encodeListFields(item)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(`
		INSERT INTO watch_items (`+watchItemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.TmdbID, item.MediaType, item.SubType, item.Title,
		item.PosterPath, item.OriginCountry, item.ReleaseDate, genres, item.Rating,
		item.UserNotes, item.IsFavorite, item.WatchDate, item.WatchTimeMinutes,
		item.Runtime, item.Seasons, item.Episodes, item.EpisodeDuration,
		seasons, episodes, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert watch item: %w", err)
	}
	return nil
}

// Update persists the mutable fields of an existing watch item.
func (r *WatchItemRepository) Update(item *models.WatchItem) error {
	item.UpdatedAt = time.Now().UTC()

	_, seasons, episodes, err := encodeListFields(item)
	if err != nil {
		return err
	}

	res, err := r.db.Exec(`
		UPDATE watch_items SET rating = ?, user_notes = ?, is_favorite = ?,
			watch_date = ?, watch_time_minutes = ?, watched_seasons = ?,
			watched_episodes = ?, updated_at = ?
		WHERE id = ?`,
		item.Rating, item.UserNotes, item.IsFavorite, item.WatchDate,
		item.WatchTimeMinutes, seasons, episodes, item.UpdatedAt, item.ID,
	)
	if err != nil {
		return fmt.Errorf("update watch item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the watch item with the given ID.
func (r *WatchItemRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM watch_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete watch item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByUser removes all of a user's watch items, optionally restricted to
// the given media types. Returns the number of deleted rows.
func (r *WatchItemRepository) DeleteByUser(userID string, mediaTypes []string) (int64, error) {
	query := `DELETE FROM watch_items WHERE user_id = ?`
	args := []any{userID}

	if len(mediaTypes) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(mediaTypes)), ", ")
		query += ` AND media_type IN (` + placeholders + `)`
		for _, mt := range mediaTypes {
			args = append(args, mt)
		}
	}

	res, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear watch items: %w", err)
	}
	return res.RowsAffected()
}

func encodeListFields(item *models.WatchItem) (genres, seasons, episodes string, err error) {
	if item.Genres == nil {
		item.Genres = []models.Genre{}
	}
	if item.WatchedSeasons == nil {
		item.WatchedSeasons = []int{}
	}
	if item.WatchedEpisodes == nil {
		item.WatchedEpisodes = []models.EpisodeRef{}
	}

	g, err := json.Marshal(item.Genres)
	if err != nil {
		return "", "", "", fmt.Errorf("encode genres: %w", err)
	}
	s, err := json.Marshal(item.WatchedSeasons)
	if err != nil {
		return "", "", "", fmt.Errorf("encode watched seasons: %w", err)
	}
	e, err := json.Marshal(item.WatchedEpisodes)
	if err != nil {
		return "", "", "", fmt.Errorf("encode watched episodes: %w", err)
	}
	return string(g), string(s), string(e), nil
}

func scanWatchItem(rows *sql.Rows) (models.WatchItem, error) {
	var (
		item                 models.WatchItem
		genres, seasons, eps string
		watchDate            sql.NullTime
	)
	err := rows.Scan(&item.ID, &item.UserID, &item.TmdbID, &item.MediaType,
		&item.SubType, &item.Title, &item.PosterPath, &item.OriginCountry,
		&item.ReleaseDate, &genres, &item.Rating, &item.UserNotes,
		&item.IsFavorite, &watchDate, &item.WatchTimeMinutes, &item.Runtime,
		&item.Seasons, &item.Episodes, &item.EpisodeDuration, &seasons, &eps,
		&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return models.WatchItem{}, fmt.Errorf("scan watch item: %w", err)
	}

	if watchDate.Valid {
		t := watchDate.Time.UTC()
		item.WatchDate = &t
	}

	if err := json.Unmarshal([]byte(genres), &item.Genres); err != nil {
		return models.WatchItem{}, fmt.Errorf("decode genres: %w", err)
	}
	if err := json.Unmarshal([]byte(seasons), &item.WatchedSeasons); err != nil {
		return models.WatchItem{}, fmt.Errorf("decode watched seasons: %w", err)
	}
	// Tagged-union decode: accepts "S1E2" tokens and legacy objects alike.
	if err := json.Unmarshal([]byte(eps), &item.WatchedEpisodes); err != nil {
		return models.WatchItem{}, fmt.Errorf("decode watched episodes: %w", err)
	}
	return item, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
