package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"investpro/internal/auth"
	"investpro/internal/database"
	"investpro/internal/models"
	"investpro/internal/repository"
	"investpro/internal/session"
)

func setupProvider(t *testing.T) *auth.Provider {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	users := repository.NewUserRepository(db)
	sessions := auth.NewSessionManager(db)
	return auth.NewProvider(users, sessions, session.NewBroadcaster())
}

func signUpUser(t *testing.T, provider *auth.Provider) (*models.User, *models.Session) {
	t.Helper()

	user, sess, err := provider.SignUp("guard@example.com", "password123", "Guard Tester")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	return user, sess
}

func TestLoadUser_NoCookie_ContinuesWithoutPrincipal(t *testing.T) {
	provider := setupProvider(t)
	m := NewAuthMiddleware(provider)

	var got *session.Principal
	handler := m.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got != nil {
		t.Errorf("GetPrincipal() = %+v, want nil", got)
	}
}

func TestLoadUser_ValidSession_SetsPrincipal(t *testing.T) {
	provider := setupProvider(t)
	m := NewAuthMiddleware(provider)
	user, sess := signUpUser(t, provider)

	var got *session.Principal
	handler := m.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetPrincipal(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got == nil {
		t.Fatal("GetPrincipal() = nil, want principal")
	}
	if got.UID != user.ID {
		t.Errorf("Principal.UID = %d, want %d", got.UID, user.ID)
	}
	if got.Email != user.Email {
		t.Errorf("Principal.Email = %q, want %q", got.Email, user.Email)
	}
}

func TestLoadUser_InvalidSession_ClearsCookie(t *testing.T) {
	provider := setupProvider(t)
	m := NewAuthMiddleware(provider)

	handler := m.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus-session-id"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("Expected session cookie to be cleared")
	}
}

func TestRequireAuth_NoPrincipal_RedirectsPages(t *testing.T) {
	provider := setupProvider(t)
	m := NewAuthMiddleware(provider)

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/portfolio", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestRequireAuth_NoPrincipal_APIGets401(t *testing.T) {
	provider := setupProvider(t)
	m := NewAuthMiddleware(provider)

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/portfolio", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want %q", ct, "application/json")
	}
}

func TestRequireAuth_WithPrincipal_Allows(t *testing.T) {
	provider := setupProvider(t)
	m := NewAuthMiddleware(provider)
	_, sess := signUpUser(t, provider)

	handler := m.LoadUser(m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/portfolio", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestRedirectIfAuthenticated_SignedIn_GoesHome(t *testing.T) {
	provider := setupProvider(t)
	m := NewAuthMiddleware(provider)
	_, sess := signUpUser(t, provider)

	handler := m.LoadUser(m.RedirectIfAuthenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest("GET", "/login", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sess.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != "/home" {
		t.Errorf("Location = %q, want %q", loc, "/home")
	}
}

func TestRedirectIfAuthenticated_Anonymous_PassesThrough(t *testing.T) {
	provider := setupProvider(t)
	m := NewAuthMiddleware(provider)

	handler := m.RedirectIfAuthenticated(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusOK)
	}
}
