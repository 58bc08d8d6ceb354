package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"cogniprep/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ProfileIDContextKey carries the authenticated profile id
const ProfileIDContextKey ContextKey = "profile_id"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens  *security.TokenIssuer
	limiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenIssuer, limiter *security.RateLimiter) *Middleware {
	return &Middleware{tokens: tokens, limiter: limiter}
}

// RequireAuth validates the Bearer token and injects the profile id
// into the request context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondWithError(w, http.StatusUnauthorized, "missing bearer token", "", nil)
			return
		}
		profileID, err := m.tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "invalid or expired token", "", nil)
			return
		}
		ctx := context.WithValue(r.Context(), ProfileIDContextKey, profileID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients exceeding the limiter's budget. Applied to
// the login endpoint only.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// profileIDFromContext returns the authenticated profile id
func profileIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(ProfileIDContextKey).(int64)
	return id, ok
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}
