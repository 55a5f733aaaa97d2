// Package middleware provides HTTP middleware for InvestPro.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"investpro/internal/auth"
	"investpro/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// PrincipalContextKey is the context key for the authenticated principal.
	PrincipalContextKey ContextKey = "principal"

	// SessionCookieName is the name of the session cookie.
	SessionCookieName = "session_id"
)

// AuthMiddleware resolves the session cookie and gates protected routes.
type AuthMiddleware struct {
	provider *auth.Provider
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(provider *auth.Provider) *AuthMiddleware {
	return &AuthMiddleware{provider: provider}
}

// LoadUser resolves the session cookie into a principal and stores it on
// the request context. It does not require authentication; requests with
// no valid session continue without a principal. Because it runs before
// any guard, the guard never sees an unresolved auth state.
func (m *AuthMiddleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.provider.Resolve(cookie.Value)
		if err != nil || user == nil {
			// Invalid or expired session, clear the cookie
			clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalContextKey, session.PrincipalFromUser(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth gates protected routes. By the time it runs, LoadUser has
// resolved the auth state, so the guard decision is never made against a
// loading state. API requests get a 401 JSON error; page requests are
// redirected to the login entry point.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch session.Decide(false, GetPrincipal(r)) {
		case session.Allow:
			next.ServeHTTP(w, r)
		default:
			if isAPIRequest(r) {
				writeUnauthorized(w)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
		}
	})
}

// RedirectIfAuthenticated redirects signed-in users to the dashboard.
// Used for login/signup pages.
func (m *AuthMiddleware) RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetPrincipal(r) != nil {
			http.Redirect(w, r, "/home", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetPrincipal retrieves the authenticated principal from the request
// context. Returns nil if no user is authenticated.
func GetPrincipal(r *http.Request) *session.Principal {
	p, ok := r.Context().Value(PrincipalContextKey).(*session.Principal)
	if !ok {
		return nil
	}
	return p
}

// SetSessionCookie sets the session cookie.
func SetSessionCookie(w http.ResponseWriter, sessionID string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie clears the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	clearSessionCookie(w)
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"authentication required"}`))
}
