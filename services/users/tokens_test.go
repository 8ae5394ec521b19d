package users_test

import (
	"errors"
	"testing"

	"reelog/services/users"
)

func TestTokenIssueAndVerify(t *testing.T) {
	issuer, err := users.NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}

	token, err := issuer.Issue("user42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	userID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if userID != "user42" {
		t.Errorf("user id = %q, want user42", userID)
	}
}

func TestTokenVerifyRejectsGarbage(t *testing.T) {
	issuer, err := users.NewTokenIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}

	if _, err := issuer.Verify("not.a.token"); !errors.Is(err, users.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := users.NewTokenIssuer("secret-a")
	other, _ := users.NewTokenIssuer("secret-b")

	token, err := issuer.Issue("user42")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, users.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken across secrets, got %v", err)
	}
}

func TestTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := users.NewTokenIssuer("  "); !errors.Is(err, users.ErrSecretRequired) {
		t.Errorf("expected ErrSecretRequired, got %v", err)
	}
}
