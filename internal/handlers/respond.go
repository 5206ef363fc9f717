package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"habitude/internal/services"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondErrorMsg(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondError maps the service failure taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage or programming failure: logged, generic
// 500 to the caller.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondErrorMsg(w, http.StatusNotFound, services.ErrNotFound.Error())
	case errors.Is(err, services.ErrHabitLimit),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrBadPassword),
		errors.Is(err, services.ErrBadToken):
		respondErrorMsg(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", slog.Any("err", err))
		respondErrorMsg(w, http.StatusInternalServerError, "Erreur serveur.")
	}
}
