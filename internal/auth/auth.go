package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const profileIDCtxKey = ctxKey("profileID")

// Manager issues and validates the HS256 bearer tokens used by the API.
// The token subject is the profile's email.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Generate creates a signed token for the given subject.
func (m *Manager) Generate(subject string) (string, error) {
	if subject == "" {
		return "", fmt.Errorf("token subject cannot be empty")
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Subject parses and validates a token, returning its subject.
func (m *Manager) Subject(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}
	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return claims.Subject, nil
}

// WithProfileID stores the authenticated profile id in context.
func WithProfileID(ctx context.Context, id uint) context.Context {
	return context.WithValue(ctx, profileIDCtxKey, id)
}

// ProfileIDFromContext extracts the authenticated profile id.
func ProfileIDFromContext(ctx context.Context) (uint, bool) {
	v := ctx.Value(profileIDCtxKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// ProfileResolver maps a token subject (email) to a profile id. It returns
// false when the profile no longer exists, so stale tokens stop working.
type ProfileResolver func(ctx context.Context, email string) (uint, bool)

// RequireAuth rejects requests without a valid bearer token and attaches the
// resolved profile id to the request context.
func (m *Manager) RequireAuth(resolve ProfileResolver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(w)
			return
		}
		subject, err := m.Subject(token)
		if err != nil {
			unauthorized(w)
			return
		}
		id, found := resolve(r.Context(), subject)
		if !found {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithProfileID(r.Context(), id)))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprint(w, `{"error":"unauthorized"}`)
}
