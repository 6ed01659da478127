package auth

import (
	"testing"
	"time"
)

func TestSessionLifecycle(t *testing.T) {
	store := &sessionStore{sessions: make(map[string]time.Time)}

	token := store.create()
	if token == "" {
		t.Fatal("create returned an empty token")
	}
	if !store.valid(token) {
		t.Error("freshly created token should be valid")
	}

	if store.valid("not-a-token") {
		t.Error("unknown token should be invalid")
	}

	store.revoke(token)
	if store.valid(token) {
		t.Error("revoked token should be invalid")
	}
}

func TestSessionExpiry(t *testing.T) {
	store := &sessionStore{sessions: make(map[string]time.Time)}

	token := store.create()
	store.mu.Lock()
	store.sessions[token] = time.Now().Add(-time.Minute)
	store.mu.Unlock()

	if store.valid(token) {
		t.Error("expired token should be invalid")
	}
	store.mu.Lock()
	_, stillThere := store.sessions[token]
	store.mu.Unlock()
	if stillThere {
		t.Error("expired token should be removed on validation")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	store := &sessionStore{sessions: make(map[string]time.Time)}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := store.create()
		if seen[token] {
			t.Fatalf("duplicate token issued: %s", token)
		}
		seen[token] = true
	}
}
