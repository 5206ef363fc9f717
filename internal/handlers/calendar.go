package handlers

import (
	"net/http"
	"time"

	"habitude/internal/middleware"
	"habitude/internal/services"
)

type CalendarHandler struct {
	svc *services.CalendarService
}

func NewCalendarHandler(svc *services.CalendarService) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

// Activity returns the per-day completion matrix for a date range.
func (h *CalendarHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		respondErrorMsg(w, http.StatusBadRequest, "Les paramètres start et end sont requis")
		return
	}

	data, err := h.svc.Activity(r.Context(), userID, start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"activityData": data})
}

// Stats aggregates completions over a date range, counting only
// days that have already elapsed.
func (h *CalendarHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" || end == "" {
		respondErrorMsg(w, http.StatusBadRequest, "Les paramètres start et end sont requis")
		return
	}

	stats, err := h.svc.RangeStats(r.Context(), userID, start, end, time.Now())
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
