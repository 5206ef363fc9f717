package coach

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "claude-sonnet-4-20250514", req["model"])

		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func modelReply(text string) string {
	b, _ := json.Marshal(map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
	return string(b)
}

func TestAnalyzeParsesVerdict(t *testing.T) {
	verdict := `{
		"improve": {"habit": "Méditation", "reason": "streak faible", "suggestion": "réduire à 5 minutes"},
		"replace": {"habit": "none", "reason": "moins de 5 habitudes", "newHabit": "Lecture", "category": "Apprentissage", "difficulty": "easy", "description": "10 pages par jour"},
		"motivation": "Continue comme ça !"
	}`
	srv := fakeAPI(t, http.StatusOK, modelReply(verdict))
	defer srv.Close()

	a := NewAnalyzerWithBaseURL("test-key", srv.URL)
	analysis, err := a.Analyze(context.Background(), []HabitSummary{
		{Name: "Méditation", Category: "Détente", Difficulty: "hard", Streak: 1, BestStreak: 4, CompletedThisWeek: 1, CompletionRate: 33},
	})
	require.NoError(t, err)
	assert.Equal(t, "Méditation", analysis.Improve.Habit)
	assert.Equal(t, "none", analysis.Replace.Habit)
	assert.Equal(t, "Apprentissage", analysis.Replace.Category)
	assert.Equal(t, "Continue comme ça !", analysis.Motivation)
}

func TestAnalyzeStripsMarkdownFences(t *testing.T) {
	verdict := "```json\n{\"improve\":{\"habit\":\"Sport\",\"reason\":\"r\",\"suggestion\":\"s\"},\"replace\":{\"habit\":\"none\",\"reason\":\"\",\"newHabit\":\"\",\"category\":\"\",\"difficulty\":\"\",\"description\":\"\"},\"motivation\":\"m\"}\n```"
	srv := fakeAPI(t, http.StatusOK, modelReply(verdict))
	defer srv.Close()

	a := NewAnalyzerWithBaseURL("test-key", srv.URL)
	analysis, err := a.Analyze(context.Background(), []HabitSummary{{Name: "Sport"}})
	require.NoError(t, err)
	assert.Equal(t, "Sport", analysis.Improve.Habit)
}

func TestAnalyzeAPIError(t *testing.T) {
	srv := fakeAPI(t, http.StatusBadRequest, `{"error":{"type":"invalid_request_error","message":"bad model"}}`)
	defer srv.Close()

	a := NewAnalyzerWithBaseURL("test-key", srv.URL)
	_, err := a.Analyze(context.Background(), []HabitSummary{{Name: "Sport"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad model")
}

func TestAnalyzeMissingKey(t *testing.T) {
	a := NewAnalyzer("")
	_, err := a.Analyze(context.Background(), []HabitSummary{{Name: "Sport"}})
	require.Error(t, err)
}

func TestPromptMentionsEachHabit(t *testing.T) {
	p := buildPrompt([]HabitSummary{
		{Name: "Course", Category: "Sport", Difficulty: "medium", Streak: 3, BestStreak: 9, CompletedThisWeek: 2, CompletionRate: 67},
		{Name: "Lecture", Category: "Apprentissage", Difficulty: "easy", Description: "10 pages"},
	})
	assert.True(t, strings.Contains(p, "Course"))
	assert.True(t, strings.Contains(p, "Lecture"))
	assert.True(t, strings.Contains(p, "10 pages"))
	assert.True(t, strings.Contains(p, "(2/5)"))
}
