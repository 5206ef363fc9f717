package handlers

import (
	"encoding/json"
	"net/http"

	"habitude/internal/middleware"
	"habitude/internal/models"
	"habitude/internal/store"
)

type NotificationHandler struct {
	users *store.Users
}

func NewNotificationHandler(users *store.Users) *NotificationHandler {
	return &NotificationHandler{users: users}
}

func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	prefs, err := h.users.NotificationPrefs(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, prefs)
}

// Update only touches the flags present in the body.
func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	var upd models.NotificationPrefsUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "requête invalide")
		return
	}
	if err := h.users.UpdateNotificationPrefs(r.Context(), userID, upd); err != nil {
		respondError(w, err)
		return
	}
	prefs, err := h.users.NotificationPrefs(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message":     "Notifications mises à jour",
		"preferences": prefs,
	})
}
