package jwtauth

import (
	"context"
	"testing"
	"time"

	"ong-shelter-api/internal/ports/auth"
)

func TestIssueVerify_RoundTrip(t *testing.T) {
	j := New("test-secret", time.Hour)

	token, err := j.Issue(context.Background(), auth.Claims{
		UserID: "42",
		Email:  "admin@ong.org",
		Role:   auth.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := j.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.UserID != "42" || claims.Email != "admin@ong.org" || claims.Role != auth.RoleAdmin {
		t.Fatalf("claims mismatch: %#v", claims)
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	a := New("secret-a", time.Hour)
	b := New("secret-b", time.Hour)

	token, err := a.Issue(context.Background(), auth.Claims{UserID: "1", Role: auth.RoleEditor})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := b.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected verification failure with wrong secret")
	}
}

func TestVerify_RejectsExpired(t *testing.T) {
	j := New("test-secret", time.Minute)

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return issuedAt }

	token, err := j.Issue(context.Background(), auth.Claims{UserID: "1", Role: auth.RoleEditor})
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	j.now = func() time.Time { return issuedAt.Add(2 * time.Minute) }
	if _, err := j.Verify(context.Background(), token); err == nil {
		t.Fatalf("expected expired token to fail verification")
	}
}

func TestVerify_RejectsEmptyAndGarbage(t *testing.T) {
	j := New("test-secret", time.Hour)

	if _, err := j.Verify(context.Background(), ""); err != ErrTokenEmpty {
		t.Fatalf("expected ErrTokenEmpty, got %v", err)
	}
	if _, err := j.Verify(context.Background(), "not.a.token"); err == nil {
		t.Fatalf("expected garbage token to fail")
	}
}
