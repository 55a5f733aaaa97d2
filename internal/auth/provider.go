package auth

import (
	"log"
	"regexp"
	"strings"

	"investpro/internal/errors"
	"investpro/internal/models"
	"investpro/internal/repository"
	"investpro/internal/session"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Provider implements the identity operations the rest of the application
// consumes: sign-up, sign-in and sign-out. Every successful operation is
// republished on the auth-state broadcaster.
type Provider struct {
	users    *repository.UserRepository
	sessions *SessionManager
	state    *session.Broadcaster
}

// NewProvider creates a new Provider.
func NewProvider(users *repository.UserRepository, sessions *SessionManager, state *session.Broadcaster) *Provider {
	return &Provider{
		users:    users,
		sessions: sessions,
		state:    state,
	}
}

// SignUp registers a new user and opens a session for them.
func (p *Provider) SignUp(email, password, displayName string) (*models.User, *models.Session, error) {
	email = strings.TrimSpace(email)
	if !emailRegex.MatchString(email) {
		return nil, nil, errors.ValidationField("email", "a valid email address is required")
	}
	if len(password) < 8 {
		return nil, nil, errors.ValidationField("password", "password must be at least 8 characters")
	}

	exists, err := p.users.EmailExists(email)
	if err != nil {
		return nil, nil, errors.Internal("checking email", err)
	}
	if exists {
		return nil, nil, errors.Conflict("an account with this email already exists")
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, nil, errors.Internal("hashing password", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(displayName),
	}
	id, err := p.users.Create(user)
	if err != nil {
		return nil, nil, errors.Internal("creating user", err)
	}
	user.ID = id

	return p.openSession(user)
}

// SignIn authenticates a user and opens a session for them.
func (p *Provider) SignIn(email, password string) (*models.User, *models.Session, error) {
	user, err := p.users.GetByEmail(email)
	if err != nil {
		return nil, nil, errors.Internal("finding user", err)
	}
	if user == nil || !CheckPassword(password, user.PasswordHash) {
		return nil, nil, errors.Auth(ErrInvalidCredentials.Error())
	}

	return p.openSession(user)
}

// ChangePassword verifies the current password, stores a new hash and
// revokes every open session for the user before opening a fresh one.
// The returned session replaces the caller's cookie.
func (p *Provider) ChangePassword(userID int64, currentPassword, newPassword string) (*models.Session, error) {
	user, err := p.users.GetByID(userID)
	if err != nil {
		return nil, errors.Internal("finding user", err)
	}
	if user == nil || !CheckPassword(currentPassword, user.PasswordHash) {
		return nil, errors.Auth("current password is incorrect")
	}
	if len(newPassword) < 8 {
		return nil, errors.ValidationField("new_password", "password must be at least 8 characters")
	}
	if newPassword == currentPassword {
		return nil, errors.ValidationField("new_password", "new password must differ from the current one")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return nil, errors.Internal("hashing password", err)
	}
	if err := p.users.UpdatePassword(user.ID, hash); err != nil {
		return nil, errors.Internal("updating password", err)
	}

	// Every session minted under the old password is now suspect.
	if err := p.sessions.DeleteByUserID(user.ID); err != nil {
		return nil, errors.Internal("revoking sessions", err)
	}

	_, s, err := p.openSession(user)
	return s, err
}

// SignOut closes a session and clears the auth state.
func (p *Provider) SignOut(sessionID string) error {
	if sessionID != "" {
		if err := p.sessions.Delete(sessionID); err != nil {
			log.Printf("SignOut: deleting session: %v", err)
		}
	}
	p.state.Clear()
	return nil
}

// Resolve loads the user behind a session ID. Returns nil without error
// for missing or expired sessions; connectivity to the identity store is
// the only error condition.
func (p *Provider) Resolve(sessionID string) (*models.User, error) {
	userID, err := p.sessions.Validate(sessionID)
	if err == ErrSessionNotFound || err == ErrSessionExpired {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p.users.GetByID(userID)
}

func (p *Provider) openSession(user *models.User) (*models.User, *models.Session, error) {
	s, err := p.sessions.Create(user.ID)
	if err != nil {
		return nil, nil, errors.Internal("creating session", err)
	}
	p.state.Publish(session.PrincipalFromUser(user))
	return user, s, nil
}
