package handlers

import (
	"net/http"

	"investpro/internal/auth"
	"investpro/internal/middleware"
	"investpro/internal/notify"
	"investpro/internal/portfolio"
	"investpro/internal/session"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	provider      *auth.Provider
	portfolios    *portfolio.Manager
	notifications *notify.Center
	sessionMaxAge int
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(provider *auth.Provider, portfolios *portfolio.Manager, notifications *notify.Center, sessionMaxAge int) *AuthHandler {
	return &AuthHandler{
		provider:      provider,
		portfolios:    portfolios,
		notifications: notifications,
		sessionMaxAge: sessionMaxAge,
	}
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Authenticated bool               `json:"authenticated"`
	User          *session.Principal `json:"user,omitempty"`
}

// Signup registers a new user and opens a session.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, sess, err := h.provider.SignUp(req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, sess.ID, h.sessionMaxAge)
	writeJSON(w, http.StatusCreated, sessionResponse{
		Authenticated: true,
		User:          session.PrincipalFromUser(user),
	})
}

// Login authenticates a user and opens a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, sess, err := h.provider.SignIn(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, sess.ID, h.sessionMaxAge)
	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: true,
		User:          session.PrincipalFromUser(user),
	})
}

// Logout closes the current session and drops the user's in-memory
// portfolio and notification state.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := ""
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	if err := h.provider.SignOut(sessionID); err != nil {
		writeError(w, err)
		return
	}

	if p := middleware.GetPrincipal(r); p != nil {
		h.portfolios.Evict(p.UID)
		h.notifications.Clear(p.UID)
	}

	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, sessionResponse{Authenticated: false})
}

// Session reports the current auth state. The client-side observer polls
// this to learn whether a session is open; it never errors for anonymous
// requests, it just reports authenticated=false.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	p := middleware.GetPrincipal(r)
	writeJSON(w, http.StatusOK, sessionResponse{
		Authenticated: p != nil,
		User:          p,
	})
}

// currentUser is a convenience for handlers behind RequireAuth.
func currentUser(r *http.Request) *session.Principal {
	return middleware.GetPrincipal(r)
}
