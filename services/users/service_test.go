package users_test

import (
	"errors"
	"path/filepath"
	"testing"

	"reelog/internal/database"
	"reelog/services/users"
)

func newTestService(t *testing.T) *users.Service {
	t.Helper()
	db, err := database.NewDB(database.Config{
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := users.NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	return users.NewService(db.Users, tokens)
}

func TestRegisterReturnsProfileWithToken(t *testing.T) {
	svc := newTestService(t)

	profile, err := svc.Register("alice", "Alice@Example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if profile.Token == "" {
		t.Error("expected token on register")
	}
	if profile.Email != "alice@example.com" {
		t.Errorf("email not lowercased: %q", profile.Email)
	}
	if profile.Preferences.Theme != users.DefaultTheme {
		t.Errorf("theme = %q, want %q", profile.Preferences.Theme, users.DefaultTheme)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("", "a@b.c", "pw"); !errors.Is(err, users.ErrUsernameRequired) {
		t.Errorf("missing username: got %v", err)
	}
	if _, err := svc.Register("alice", "", "pw"); !errors.Is(err, users.ErrEmailRequired) {
		t.Errorf("missing email: got %v", err)
	}
	if _, err := svc.Register("alice", "a@b.c", ""); !errors.Is(err, users.ErrPasswordRequired) {
		t.Errorf("missing password: got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("alice", "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register("bob", "ALICE@example.com", "other"); !errors.Is(err, users.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Register("alice", "alice@example.com", "hunter2"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	profile, err := svc.Authenticate("alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if profile.Token == "" {
		t.Error("expected token on login")
	}

	if _, err := svc.Authenticate("alice@example.com", "wrong"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Errorf("wrong password: got %v", err)
	}
	if _, err := svc.Authenticate("nobody@example.com", "hunter2"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Errorf("unknown email: got %v", err)
	}
}

func TestGetProfileOmitsToken(t *testing.T) {
	svc := newTestService(t)

	registered, err := svc.Register("alice", "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	profile, err := svc.Get(registered.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if profile.Token != "" {
		t.Error("profile lookup should not mint a token")
	}

	if _, err := svc.Get("missing"); !errors.Is(err, users.ErrUserNotFound) {
		t.Errorf("missing user: got %v", err)
	}
}

func TestUpdateProfileThemeAndPassword(t *testing.T) {
	svc := newTestService(t)

	registered, err := svc.Register("alice", "alice@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	updated, err := svc.UpdateProfile(registered.ID, users.ProfileUpdate{
		Theme:    "light",
		Password: "correcthorse",
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Preferences.Theme != "light" {
		t.Errorf("theme = %q, want light", updated.Preferences.Theme)
	}

	// Old password stops working, new one authenticates.
	if _, err := svc.Authenticate("alice@example.com", "hunter2"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Errorf("old password should fail: got %v", err)
	}
	if _, err := svc.Authenticate("alice@example.com", "correcthorse"); err != nil {
		t.Errorf("new password should work: got %v", err)
	}
}
