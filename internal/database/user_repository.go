package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"reelog/models"
)

// UserRepository provides CRUD access to the users table.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a user repository over the given connection.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user. CreatedAt/UpdatedAt are set if zero.
func (r *UserRepository) CreateUser(user *models.User) error {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = user.CreatedAt
	}
	if user.Preferences.Theme == "" {
		user.Preferences.Theme = "dark"
	}

	_, err := r.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, theme, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.Preferences.Theme, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByID returns the user with the given ID, or nil if absent.
func (r *UserRepository) GetUserByID(id string) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, username, email, password_hash, theme, created_at, updated_at
		FROM users WHERE id = ?`, id))
}

// GetUserByEmail returns the user with the given email (case-insensitive),
// or nil if absent.
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, username, email, password_hash, theme, created_at, updated_at
		FROM users WHERE email = ?`, strings.TrimSpace(email)))
}

// UpdateUser persists mutable user fields (password hash and theme).
func (r *UserRepository) UpdateUser(user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.db.Exec(`
		UPDATE users SET username = ?, password_hash = ?, theme = ?, updated_at = ?
		WHERE id = ?`,
		user.Username, user.PasswordHash, user.Preferences.Theme, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepository) scanOne(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.Preferences.Theme, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}
