package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"reelog/internal/auth"
	"reelog/models"
	"reelog/services/users"
)

type usersService interface {
	Register(username, email, password string) (models.UserProfile, error)
	Authenticate(email, password string) (models.UserProfile, error)
	Get(id string) (models.UserProfile, error)
	UpdateProfile(id string, update users.ProfileUpdate) (models.UserProfile, error)
}

var _ usersService = (*users.Service)(nil)

// UsersHandler serves registration, login, and profile endpoints.
type UsersHandler struct {
	Service usersService
}

func NewUsersHandler(service usersService) *UsersHandler {
	return &UsersHandler{Service: service}
}

// Register handles POST /api/users.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.Register(body.Username, body.Email, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameRequired),
			errors.Is(err, users.ErrEmailRequired),
			errors.Is(err, users.ErrPasswordRequired),
			errors.Is(err, users.ErrEmailExists):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("[users] register failed: %v", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.Authenticate(body.Email, body.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		log.Printf("[users] login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Profile handles GET /api/users/profile.
func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)

	profile, err := h.Service.Get(userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("[users] profile lookup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "profile lookup failed")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/users/profile.
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := auth.GetUserID(r)

	var body users.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.Service.UpdateProfile(userID, body)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Printf("[users] profile update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "profile update failed")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
