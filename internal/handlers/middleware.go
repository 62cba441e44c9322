package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"tiakaly/internal/models"
	"tiakaly/internal/security"
	"tiakaly/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	UserContextKey    ContextKey = "user"
	SessionContextKey ContextKey = "session"
)

// CSRFHeaderName carries the CSRF token on mutating requests
const CSRFHeaderName = "X-CSRF-Token"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	rateLimiter *security.RateLimiter
	csrf        *security.CSRFGenerator
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService, rateLimiter *security.RateLimiter, csrf *security.CSRFGenerator) *Middleware {
	return &Middleware{
		authService: authService,
		rateLimiter: rateLimiter,
		csrf:        csrf,
	}
}

// RequireAuth resolves the auth cookie to a user and session and puts both
// on the request context. Requests without a valid session get 401.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(security.AuthCookieName)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
			return
		}

		user, session, err := m.authService.ResolveUser(cookie.Value)
		if err != nil {
			// Stale cookie, clear it so the client stops sending it.
			http.SetCookie(w, security.CreateDeleteAuthCookie(r))
			respondWithError(w, http.StatusUnauthorized, "Not authenticated", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		ctx = context.WithValue(ctx, SessionContextKey, session)
		next(w, r.WithContext(ctx))
	}
}

// RequirePermission gates a handler on the user holding at least one of the
// required permissions. Must run inside RequireAuth.
func (m *Middleware) RequirePermission(next http.HandlerFunc, required ...models.Permission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		if !m.authService.Authorize(user, required...) {
			respondWithError(w, http.StatusForbidden, "Insufficient permissions", "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit throttles by client IP. Applied to credential endpoints.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.rateLimiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests, please try again later", "", nil)
			return
		}
		next(w, r)
	}
}

// CSRFProtect validates the CSRF header against the caller's session token.
// Must run inside RequireAuth.
func (m *Middleware) CSRFProtect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session := GetSessionFromContext(r.Context())
		if session == nil || !m.csrf.ValidateToken(session.Token, r.Header.Get(CSRFHeaderName)) {
			respondWithError(w, http.StatusForbidden, "Invalid CSRF token", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetSessionFromContext retrieves the session from the request context
func GetSessionFromContext(ctx context.Context) *models.Session {
	session, ok := ctx.Value(SessionContextKey).(*models.Session)
	if !ok {
		return nil
	}
	return session
}
