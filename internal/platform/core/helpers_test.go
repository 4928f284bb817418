package core

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
)

// TestIsSafeRedirect verifies is safe redirect behavior.
func TestIsSafeRedirect(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "https://example.com/base", nil)

	if !IsSafeRedirect(req, "/users?page=2") {
		t.Fatalf("expected relative redirect to be safe")
	}
	if !IsSafeRedirect(req, "https://example.com/favorites") {
		t.Fatalf("expected same-host redirect to be safe")
	}
	if IsSafeRedirect(req, "https://evil.example.com/") {
		t.Fatalf("expected different host to be unsafe")
	}
	if IsSafeRedirect(req, "//evil.example.com/") {
		t.Fatalf("expected protocol-relative redirect to be unsafe")
	}
	if IsSafeRedirect(req, "javascript:alert(1)") {
		t.Fatalf("expected javascript URL to be unsafe")
	}
	if IsSafeRedirect(req, "") {
		t.Fatalf("expected empty target to be unsafe")
	}
}

func TestPositiveInt(t *testing.T) {
	if got := PositiveInt("3", 1); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	for _, raw := range []string{"", "0", "-2", "abc"} {
		if got := PositiveInt(raw, 1); got != 1 {
			t.Fatalf("expected fallback for %q, got %d", raw, got)
		}
	}
}


func TestPopFlash(t *testing.T) {
	store := sessions.NewCookieStore([]byte("test-secret"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	session, err := store.Get(req, "test")
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	if got := PopFlash(session); got != "" {
		t.Fatalf("expected no flash, got %q", got)
	}
	session.AddFlash("Added Janet Weaver to favorites")
	if got := PopFlash(session); got != "Added Janet Weaver to favorites" {
		t.Fatalf("unexpected flash %q", got)
	}
	if got := PopFlash(session); got != "" {
		t.Fatalf("expected flash to be consumed, got %q", got)
	}
}

// TestSubtleCompare verifies subtle compare behavior.
func TestSubtleCompare(t *testing.T) {
	if !SubtleCompare("abc", "abc") {
		t.Fatalf("expected equal strings to match")
	}
	if SubtleCompare("abc", "abd") {
		t.Fatalf("expected different strings to mismatch")
	}
	if len(RandomToken(8)) != 16 {
		t.Fatalf("expected 16 hex chars")
	}
}
