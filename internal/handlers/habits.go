package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"habitude/internal/middleware"
	"habitude/internal/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{svc: svc}
}

// List returns the user's habits with weekData (Monday first) and streak.
func (h *HabitHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	habits, err := h.svc.List(r.Context(), userID, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	if habits == nil {
		habits = []services.HabitWithWeek{}
	}
	respondJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	var in services.HabitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "requête invalide")
		return
	}
	habit, err := h.svc.Create(r.Context(), userID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, habit)
}

func (h *HabitHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	habitID, err := habitIDParam(r)
	if err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "ID invalide")
		return
	}
	var in services.HabitInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "requête invalide")
		return
	}
	habit, err := h.svc.Update(r.Context(), habitID, userID, in)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, habit)
}

func (h *HabitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	habitID, err := habitIDParam(r)
	if err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "ID invalide")
		return
	}
	if err := h.svc.Delete(r.Context(), habitID, userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Habitude supprimée avec succès"})
}

// Toggle flips today's completion state and reports the new one.
func (h *HabitHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	habitID, err := habitIDParam(r)
	if err != nil {
		respondErrorMsg(w, http.StatusBadRequest, "ID invalide")
		return
	}
	res, err := h.svc.Toggle(r.Context(), habitID, userID, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"completed": res.Completed,
		"message":   res.Message,
	})
}

func habitIDParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}
