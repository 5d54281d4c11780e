package httpx

import (
	"net/http"

	"github.com/BemwaMalak/mini-full-stack/internal/service/notifier"
)

// SessionHandlers exposes the read-only session state and pending notifications.
type SessionHandlers struct {
	Session SessionReader
	Toasts  ToastSource
}

// Get handles GET /api/session.
func (h *SessionHandlers) Get(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, h.Session.Snapshot())
}

type notificationsResponse struct {
	Notifications []notifier.Toast `json:"notifications"`
}

// Notifications handles GET /api/notifications. Returned toasts are removed.
func (h *SessionHandlers) Notifications(w http.ResponseWriter, _ *http.Request) {
	toasts := drainToasts(h.Toasts)
	if toasts == nil {
		toasts = []notifier.Toast{}
	}
	WriteJSON(w, http.StatusOK, notificationsResponse{Notifications: toasts})
}
