package handlers

import (
	"context"
	"math"
	"net/http"
	"time"

	"habitude/internal/analytics"
	"habitude/internal/coach"
	"habitude/internal/middleware"
	"habitude/internal/services"
)

// HabitAnalyzer is the AI coach boundary; its real implementation lives
// in the coach package.
type HabitAnalyzer interface {
	Analyze(ctx context.Context, habits []coach.HabitSummary) (coach.Analysis, error)
}

type AIHandler struct {
	habits   *services.HabitService
	analyzer HabitAnalyzer
}

func NewAIHandler(habits *services.HabitService, analyzer HabitAnalyzer) *AIHandler {
	return &AIHandler{habits: habits, analyzer: analyzer}
}

// Analyze summarizes the current week and asks the coach for advice.
func (h *AIHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r.Context())
	now := time.Now()

	habits, err := h.habits.List(r.Context(), userID, now)
	if err != nil {
		respondError(w, err)
		return
	}
	if len(habits) == 0 {
		respondErrorMsg(w, http.StatusBadRequest,
			"Vous devez avoir au moins une habitude pour obtenir une analyse")
		return
	}

	elapsed := len(analytics.ElapsedWeekDates(now))
	summaries := make([]coach.HabitSummary, 0, len(habits))
	for _, hw := range habits {
		completed := 0
		for i := 0; i < elapsed && i < len(hw.WeekData); i++ {
			if hw.WeekData[i] {
				completed++
			}
		}
		rate := 0
		if elapsed > 0 {
			rate = int(math.Round(float64(completed) / float64(elapsed) * 100))
		}
		summaries = append(summaries, coach.HabitSummary{
			Name:              hw.Name,
			Description:       hw.Description,
			Category:          hw.Category,
			Difficulty:        hw.Difficulty,
			Streak:            hw.Streak,
			BestStreak:        hw.BestStreak,
			CompletedThisWeek: completed,
			CompletionRate:    rate,
		})
	}

	analysis, err := h.analyzer.Analyze(r.Context(), summaries)
	if err != nil {
		respondErrorMsg(w, http.StatusInternalServerError, "Erreur lors de l'analyse")
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}
