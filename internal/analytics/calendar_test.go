package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityMatrixDenseRange(t *testing.T) {
	entries := []Entry{{HabitID: 7, Date: "2025-06-02", Completed: true}}
	data, err := ActivityMatrix([]int{7}, "2025-06-01", "2025-06-03", entries)
	require.NoError(t, err)
	require.Len(t, data, 3)
	assert.False(t, data["2025-06-01"][7])
	assert.True(t, data["2025-06-02"][7])
	assert.False(t, data["2025-06-03"][7])
}

func TestActivityMatrixIgnoresEntriesOutsideRange(t *testing.T) {
	entries := []Entry{
		{HabitID: 1, Date: "2025-05-31", Completed: true},
		{HabitID: 1, Date: "2025-06-01", Completed: false},
	}
	data, err := ActivityMatrix([]int{1}, "2025-06-01", "2025-06-02", entries)
	require.NoError(t, err)
	assert.False(t, data["2025-06-01"][1])
	assert.False(t, data["2025-06-02"][1])
}

func TestRangeStatsElapsedOnly(t *testing.T) {
	habits := []HabitInfo{
		{ID: 1, Name: "Lecture", Category: "Apprentissage"},
		{ID: 2, Name: "Course", Category: "Sport"},
	}
	entries := []Entry{
		{HabitID: 1, Date: "2025-06-01", Completed: true},
		{HabitID: 1, Date: "2025-06-02", Completed: true},
		{HabitID: 2, Date: "2025-06-01", Completed: true},
	}
	// Request the whole month on June 10: only 10 days are elapsed.
	stats, err := RangeStats(habits, entries, "2025-06-01", "2025-06-30", day("2025-06-10"))
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalDays)
	assert.Equal(t, 20, stats.TotalPossibleCompletions)
	assert.Equal(t, 3, stats.TotalCompletions)
	assert.Equal(t, 2, stats.CompletedDays)
	assert.Equal(t, 2, stats.HabitStats[1].Completed)
	assert.Equal(t, 10, stats.HabitStats[1].Total)
	assert.Equal(t, "Lecture", stats.HabitStats[1].Name)

	require.NotNil(t, stats.BestHabit)
	assert.Equal(t, 1, stats.BestHabit.ID)
	assert.Equal(t, 20, stats.BestHabit.Percentage)
}

func TestRangeStatsFirstMaximalWins(t *testing.T) {
	habits := []HabitInfo{{ID: 3, Name: "A"}, {ID: 9, Name: "B"}}
	entries := []Entry{
		{HabitID: 3, Date: "2025-06-01", Completed: true},
		{HabitID: 9, Date: "2025-06-01", Completed: true},
	}
	stats, err := RangeStats(habits, entries, "2025-06-01", "2025-06-02", day("2025-06-10"))
	require.NoError(t, err)
	require.NotNil(t, stats.BestHabit)
	assert.Equal(t, 3, stats.BestHabit.ID)
}

func TestRangeStatsBestHabitExactPercentage(t *testing.T) {
	// Over 200 elapsed days, 100/200 (50.0%) and 101/200 (50.5%) floor to the
	// same integer percent; the one-completion lead must still win.
	habits := []HabitInfo{
		{ID: 1, Name: "Lecture", Category: "Apprentissage"},
		{ID: 2, Name: "Course", Category: "Sport"},
	}
	start := day("2025-01-01")
	var entries []Entry
	for i := 0; i < 100; i++ {
		entries = append(entries, Entry{HabitID: 1, Date: start.AddDate(0, 0, i).Format(DateLayout), Completed: true})
	}
	for i := 0; i < 101; i++ {
		entries = append(entries, Entry{HabitID: 2, Date: start.AddDate(0, 0, i).Format(DateLayout), Completed: true})
	}
	// 2025-01-01 through 2025-07-19 is 200 days, all elapsed.
	stats, err := RangeStats(habits, entries, "2025-01-01", "2025-07-19", day("2025-12-31"))
	require.NoError(t, err)
	assert.Equal(t, 200, stats.TotalDays)

	require.NotNil(t, stats.BestHabit)
	assert.Equal(t, 2, stats.BestHabit.ID)
	assert.Equal(t, 51, stats.BestHabit.Percentage)
}

func TestRangeStatsNoHabits(t *testing.T) {
	stats, err := RangeStats(nil, nil, "2025-06-01", "2025-06-30", day("2025-06-10"))
	require.NoError(t, err)
	assert.Zero(t, stats.TotalDays)
	assert.Zero(t, stats.TotalPossibleCompletions)
	assert.Nil(t, stats.BestHabit)
	assert.Empty(t, stats.HabitStats)
}

func TestRangeStatsAllZeroHasNoBestHabit(t *testing.T) {
	habits := []HabitInfo{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}
	stats, err := RangeStats(habits, nil, "2025-06-01", "2025-06-05", day("2025-06-10"))
	require.NoError(t, err)
	assert.Nil(t, stats.BestHabit)
}
