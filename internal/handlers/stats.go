package handlers

import (
	"net/http"
	"time"

	"habitude/internal/analytics"
	"habitude/internal/middleware"
	"habitude/internal/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{svc: svc}
}

// Get computes dashboard stats for the current week. An optional
// local_date query parameter (YYYY-MM-DD) pins "today" to the
// client's local day so evening usage near UTC midnight stays correct.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())

	today := time.Now()
	if raw := r.URL.Query().Get("local_date"); raw != "" {
		parsed, err := time.Parse(analytics.DateLayout, raw)
		if err != nil {
			respondErrorMsg(w, http.StatusBadRequest, "Format de date invalide. Utilisez YYYY-MM-DD.")
			return
		}
		today = parsed
	}

	stats, err := h.svc.UserStats(r.Context(), userID, today)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
