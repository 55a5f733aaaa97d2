package handlers

import (
	"net/http"

	"investpro/internal/errors"
	"investpro/internal/notify"
)

// NotificationHandler handles the notification feed.
type NotificationHandler struct {
	center *notify.Center
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// List drains and returns the user's pending notifications. Delivered
// notifications are gone; each is shown once.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user == nil {
		writeError(w, errors.Unauthorized("authentication required"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": h.center.Drain(user.UID),
	})
}
