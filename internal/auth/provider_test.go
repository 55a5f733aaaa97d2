package auth

import (
	"testing"

	"investpro/internal/errors"
	"investpro/internal/repository"
	"investpro/internal/session"
)

func setupProvider(t *testing.T) (*Provider, *session.Broadcaster) {
	t.Helper()
	db := setupTestDB(t)
	state := session.NewBroadcaster()
	p := NewProvider(repository.NewUserRepository(db), NewSessionManager(db), state)
	return p, state
}

func TestProvider_SignUp_CreatesUserAndSession(t *testing.T) {
	p, state := setupProvider(t)

	user, sess, err := p.SignUp("new@example.com", "password123", "New User")
	if err != nil {
		t.Fatalf("SignUp() error = %v, want nil", err)
	}
	if user.ID <= 0 {
		t.Errorf("SignUp() user ID = %d, want > 0", user.ID)
	}
	if sess.ID == "" {
		t.Error("SignUp() session ID is empty")
	}

	// Auth state should have been published
	principal, loading := state.Current()
	if loading {
		t.Error("auth state still loading after sign-up")
	}
	if principal == nil || principal.UID != user.ID {
		t.Errorf("published principal = %+v, want UID %d", principal, user.ID)
	}
}

func TestProvider_SignUp_InvalidEmail_ReturnsValidationError(t *testing.T) {
	p, _ := setupProvider(t)

	_, _, err := p.SignUp("not-an-email", "password123", "")
	if !errors.IsValidation(err) {
		t.Errorf("SignUp() error = %v, want validation error", err)
	}
}

func TestProvider_SignUp_ShortPassword_ReturnsValidationError(t *testing.T) {
	p, _ := setupProvider(t)

	_, _, err := p.SignUp("a@b.co", "short", "")
	if !errors.IsValidation(err) {
		t.Errorf("SignUp() error = %v, want validation error", err)
	}
}

func TestProvider_SignUp_DuplicateEmail_ReturnsConflict(t *testing.T) {
	p, _ := setupProvider(t)

	if _, _, err := p.SignUp("dup@example.com", "password123", ""); err != nil {
		t.Fatalf("first SignUp() error = %v", err)
	}

	_, _, err := p.SignUp("dup@example.com", "password456", "")
	if !errors.IsConflict(err) {
		t.Errorf("SignUp() error = %v, want conflict error", err)
	}
}

func TestProvider_SignIn_ValidCredentials_ReturnsSession(t *testing.T) {
	p, _ := setupProvider(t)
	p.SignUp("login@example.com", "password123", "")

	user, sess, err := p.SignIn("login@example.com", "password123")
	if err != nil {
		t.Fatalf("SignIn() error = %v, want nil", err)
	}
	if user.Email != "login@example.com" {
		t.Errorf("SignIn() email = %q", user.Email)
	}
	if sess.ID == "" {
		t.Error("SignIn() session ID is empty")
	}
}

func TestProvider_SignIn_WrongPassword_ReturnsAuthError(t *testing.T) {
	p, _ := setupProvider(t)
	p.SignUp("login@example.com", "password123", "")

	_, _, err := p.SignIn("login@example.com", "wrongpassword")
	if !errors.IsAuth(err) {
		t.Errorf("SignIn() error = %v, want auth error", err)
	}
}

func TestProvider_SignIn_UnknownUser_ReturnsAuthError(t *testing.T) {
	p, _ := setupProvider(t)

	_, _, err := p.SignIn("nobody@example.com", "password123")
	if !errors.IsAuth(err) {
		t.Errorf("SignIn() error = %v, want auth error", err)
	}
}

func TestProvider_SignOut_ClosesSessionAndClearsState(t *testing.T) {
	p, state := setupProvider(t)
	_, sess, err := p.SignUp("out@example.com", "password123", "")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	if err := p.SignOut(sess.ID); err != nil {
		t.Fatalf("SignOut() error = %v, want nil", err)
	}

	// Session should no longer resolve
	user, err := p.Resolve(sess.ID)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if user != nil {
		t.Error("session still resolves after SignOut()")
	}

	// Auth state should be cleared
	principal, loading := state.Current()
	if loading {
		t.Error("auth state loading after SignOut()")
	}
	if principal != nil {
		t.Errorf("principal = %+v, want nil after SignOut()", principal)
	}
}

func TestProvider_ChangePassword_WrongCurrent_ReturnsAuthError(t *testing.T) {
	p, _ := setupProvider(t)
	user, _, _ := p.SignUp("rotate@example.com", "password123", "")

	_, err := p.ChangePassword(user.ID, "wrong-password", "password456")
	if !errors.IsAuth(err) {
		t.Errorf("ChangePassword() error = %v, want auth error", err)
	}
}

func TestProvider_ChangePassword_ShortNew_ReturnsValidationError(t *testing.T) {
	p, _ := setupProvider(t)
	user, _, _ := p.SignUp("rotate@example.com", "password123", "")

	_, err := p.ChangePassword(user.ID, "password123", "short")
	if !errors.IsValidation(err) {
		t.Errorf("ChangePassword() error = %v, want validation error", err)
	}
}

func TestProvider_ChangePassword_SameAsCurrent_ReturnsValidationError(t *testing.T) {
	p, _ := setupProvider(t)
	user, _, _ := p.SignUp("rotate@example.com", "password123", "")

	_, err := p.ChangePassword(user.ID, "password123", "password123")
	if !errors.IsValidation(err) {
		t.Errorf("ChangePassword() error = %v, want validation error", err)
	}
}

func TestProvider_ChangePassword_RevokesAllOpenSessions(t *testing.T) {
	p, _ := setupProvider(t)
	user, first, err := p.SignUp("rotate@example.com", "password123", "")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	// A second device holds its own session.
	_, second, err := p.SignIn("rotate@example.com", "password123")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	fresh, err := p.ChangePassword(user.ID, "password123", "password456")
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if fresh.ID == first.ID || fresh.ID == second.ID {
		t.Error("fresh session reuses a revoked session ID")
	}

	for _, old := range []string{first.ID, second.ID} {
		if u, _ := p.Resolve(old); u != nil {
			t.Errorf("revoked session %q still resolves to %+v", old, u)
		}
	}
	if u, err := p.Resolve(fresh.ID); err != nil || u == nil || u.ID != user.ID {
		t.Errorf("Resolve(fresh) = (%+v, %v), want user %d", u, err, user.ID)
	}

	if _, _, err := p.SignIn("rotate@example.com", "password123"); !errors.IsAuth(err) {
		t.Errorf("SignIn() with old password error = %v, want auth error", err)
	}
	if _, _, err := p.SignIn("rotate@example.com", "password456"); err != nil {
		t.Errorf("SignIn() with new password error = %v, want nil", err)
	}
}

func TestProvider_Resolve_UnknownSession_ReturnsNil(t *testing.T) {
	p, _ := setupProvider(t)

	user, err := p.Resolve("does-not-exist")
	if err != nil {
		t.Fatalf("Resolve() error = %v, want nil", err)
	}
	if user != nil {
		t.Errorf("Resolve() = %+v, want nil", user)
	}
}
