package users

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reelog/internal/database"
	"reelog/models"
)

var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailExists        = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// DefaultTheme is applied to new accounts.
const DefaultTheme = "dark"

// ProfileUpdate carries the mutable profile fields. Empty values are ignored.
type ProfileUpdate struct {
	Theme    string `json:"theme"`
	Password string `json:"password"`
}

// Service manages user registration, authentication, and profiles on top of
// the user repository and a token signer.
type Service struct {
	repo   *database.UserRepository
	tokens *TokenIssuer
}

// NewService creates a users service.
func NewService(repo *database.UserRepository, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Register creates a new user and returns the profile with a fresh token.
func (s *Service) Register(username, email, password string) (models.UserProfile, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	password = strings.TrimSpace(password)

	if username == "" {
		return models.UserProfile{}, ErrUsernameRequired
	}
	if email == "" {
		return models.UserProfile{}, ErrEmailRequired
	}
	if password == "" {
		return models.UserProfile{}, ErrPasswordRequired
	}

	existing, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return models.UserProfile{}, err
	}
	if existing != nil {
		return models.UserProfile{}, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Preferences:  models.Preferences{Theme: DefaultTheme},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(&user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return models.UserProfile{}, ErrEmailExists
		}
		return models.UserProfile{}, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return user.Profile(token), nil
}

// Authenticate verifies email and password, returning the profile with a
// fresh token.
func (s *Service) Authenticate(email, password string) (models.UserProfile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return models.UserProfile{}, ErrInvalidCredentials
	}

	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		return models.UserProfile{}, err
	}
	if user == nil {
		// Burn a comparison anyway to keep timing uniform
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$dummy"), []byte(password))
		return models.UserProfile{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.UserProfile{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return user.Profile(token), nil
}

// Get returns the profile for the given user ID without a token.
func (s *Service) Get(id string) (models.UserProfile, error) {
	user, err := s.repo.GetUserByID(id)
	if err != nil {
		return models.UserProfile{}, err
	}
	if user == nil {
		return models.UserProfile{}, ErrUserNotFound
	}
	return user.Profile(""), nil
}

// UpdateProfile applies theme and/or password changes, returning the updated
// profile with a refreshed token.
func (s *Service) UpdateProfile(id string, update ProfileUpdate) (models.UserProfile, error) {
	user, err := s.repo.GetUserByID(id)
	if err != nil {
		return models.UserProfile{}, err
	}
	if user == nil {
		return models.UserProfile{}, ErrUserNotFound
	}

	if theme := strings.TrimSpace(update.Theme); theme != "" {
		user.Preferences.Theme = theme
	}
	if password := strings.TrimSpace(update.Password); password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.UserProfile{}, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	if err := s.repo.UpdateUser(user); err != nil {
		return models.UserProfile{}, err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.UserProfile{}, err
	}
	return user.Profile(token), nil
}
