package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreakEmptyHistory(t *testing.T) {
	assert.Equal(t, 0, Streak(nil, day("2025-06-10")))
}

func TestStreakSingleCompletionToday(t *testing.T) {
	assert.Equal(t, 1, Streak([]string{"2025-06-10"}, day("2025-06-10")))
}

func TestStreakConsecutiveRun(t *testing.T) {
	// Completed every day from today-4 through today: streak of 5.
	dates := []string{"2025-06-10", "2025-06-09", "2025-06-08", "2025-06-07", "2025-06-06"}
	assert.Equal(t, 5, Streak(dates, day("2025-06-10")))
}

func TestStreakAnchoredToToday(t *testing.T) {
	// Yesterday completed, today missed: the chain starting at today is broken.
	dates := []string{"2025-06-09", "2025-06-08", "2025-06-07"}
	assert.Equal(t, 0, Streak(dates, day("2025-06-10")))
}

func TestStreakStopsAtFirstGap(t *testing.T) {
	dates := []string{"2025-06-10", "2025-06-09", "2025-06-07", "2025-06-06"}
	assert.Equal(t, 2, Streak(dates, day("2025-06-10")))
}
