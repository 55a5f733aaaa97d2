package handlers

import (
	"net/http"

	qrcode "github.com/skip2/go-qrcode"

	"investpro/internal/auth"
	"investpro/internal/errors"
	"investpro/internal/middleware"
	"investpro/internal/repository"
)

// ProfileHandler handles the user profile routes.
type ProfileHandler struct {
	users         *repository.UserRepository
	provider      *auth.Provider
	baseURL       string
	sessionMaxAge int
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users *repository.UserRepository, provider *auth.Provider, baseURL string, sessionMaxAge int) *ProfileHandler {
	return &ProfileHandler{
		users:         users,
		provider:      provider,
		baseURL:       baseURL,
		sessionMaxAge: sessionMaxAge,
	}
}

type profileUpdateRequest struct {
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Get returns the signed-in user's profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := currentUser(r)
	if principal == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	user, err := h.users.GetByID(principal.UID)
	if err != nil {
		writeError(w, errors.Fetch("loading profile", err))
		return
	}
	if user == nil {
		writeError(w, errors.NotFound("user"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Update changes the mutable profile fields.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := currentUser(r)
	if principal == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req profileUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.DisplayName == "" {
		writeError(w, errors.ValidationField("display_name", "display name is required"))
		return
	}

	if err := h.users.UpdateProfile(principal.UID, req.DisplayName, req.PhotoURL); err != nil {
		writeError(w, errors.Persistence("updating profile", err))
		return
	}

	user, err := h.users.GetByID(principal.UID)
	if err != nil {
		writeError(w, errors.Fetch("loading profile", err))
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// ChangePassword rotates the user's password. Every other session is
// revoked as a side effect, so the response carries a fresh cookie.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal := currentUser(r)
	if principal == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	var req passwordChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	sess, err := h.provider.ChangePassword(principal.UID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, sess.ID, h.sessionMaxAge)
	writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// QR serves a QR code of the application URL so the profile page can
// offer a quick handoff to a phone.
func (h *ProfileHandler) QR(w http.ResponseWriter, r *http.Request) {
	png, err := qrcode.Encode(h.baseURL, qrcode.Medium, 256)
	if err != nil {
		writeError(w, errors.Internal("generating QR code", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
