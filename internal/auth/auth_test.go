package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewManager("unit-test-secret", time.Minute)
	token, err := m.Generate("user@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	subject, err := m.Subject(token)
	if err != nil {
		t.Fatalf("subject: %v", err)
	}
	if subject != "user@example.com" {
		t.Fatalf("subject = %q, want user@example.com", subject)
	}
}

func TestGenerateRejectsEmptySubject(t *testing.T) {
	m := NewManager("unit-test-secret", time.Minute)
	if _, err := m.Generate(""); err == nil {
		t.Fatal("expected error for empty subject")
	}
}

func TestSubjectRejectsExpiredToken(t *testing.T) {
	m := NewManager("unit-test-secret", -time.Minute)
	token, err := m.Generate("user@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.Subject(token); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestSubjectRejectsForeignSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Minute).Generate("user@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewManager("secret-b", time.Minute).Subject(token); err == nil {
		t.Fatal("expected token signed with another secret to fail")
	}
}

func TestRequireAuth(t *testing.T) {
	m := NewManager("unit-test-secret", time.Minute)
	resolve := func(_ context.Context, email string) (uint, bool) {
		if email == "known@example.com" {
			return 7, true
		}
		return 0, false
	}

	var gotID uint
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = ProfileIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := m.RequireAuth(resolve, next)

	call := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := call(""); code != http.StatusUnauthorized {
		t.Fatalf("missing header: got %d", code)
	}
	if code := call("Bearer not-a-token"); code != http.StatusUnauthorized {
		t.Fatalf("garbage token: got %d", code)
	}

	stale, _ := m.Generate("gone@example.com")
	if code := call("Bearer " + stale); code != http.StatusUnauthorized {
		t.Fatalf("stale subject: got %d", code)
	}

	valid, _ := m.Generate("known@example.com")
	if code := call("Bearer " + valid); code != http.StatusOK {
		t.Fatalf("valid token: got %d", code)
	}
	if !gotOK || gotID != 7 {
		t.Fatalf("context profile id = %d (ok=%v), want 7", gotID, gotOK)
	}
}

func TestProfileIDFromContextMissing(t *testing.T) {
	if _, ok := ProfileIDFromContext(context.Background()); ok {
		t.Fatal("expected no profile id in fresh context")
	}
}
