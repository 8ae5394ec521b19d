package models

import "time"

// Preferences holds per-user UI preferences.
type Preferences struct {
	Theme string `json:"theme"`
}

// User is a registered account. PasswordHash is never serialized to API
// responses; handlers use UserProfile for that.
type User struct {
	ID           string      `json:"_id"`
	Username     string      `json:"username"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	Preferences  Preferences `json:"preferences"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// UserProfile is the API-facing view of a user, optionally with a fresh token.
type UserProfile struct {
	ID          string      `json:"_id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Preferences Preferences `json:"preferences"`
	Token       string      `json:"token,omitempty"`
}

// Profile converts a user to its API-facing view.
func (u User) Profile(token string) UserProfile {
	return UserProfile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		Preferences: u.Preferences,
		Token:       token,
	}
}
