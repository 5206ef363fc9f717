package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEnforcesHabitLimit(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	svc := NewHabitService(fake)

	for i := 0; i < MaxHabitsPerUser-1; i++ {
		fake.addHabit(1, fmt.Sprintf("habitude %d", i))
	}

	// The fifth habit still fits.
	h, err := svc.Create(ctx, 1, HabitInput{Name: "Méditation"})
	require.NoError(t, err)
	assert.Equal(t, "Méditation", h.Name)
	assert.Equal(t, "Sport", h.Category, "category defaults when omitted")
	assert.Equal(t, "easy", h.Difficulty)

	// The sixth does not.
	_, err = svc.Create(ctx, 1, HabitInput{Name: "Une de trop"})
	require.ErrorIs(t, err, ErrHabitLimit)
	assert.Contains(t, err.Error(), "Limite atteinte")

	// Another user is unaffected.
	_, err = svc.Create(ctx, 2, HabitInput{Name: "Lecture"})
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewHabitService(newFakeStore())

	_, err := svc.Create(ctx, 1, HabitInput{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, 1, HabitInput{Name: "Lecture", Category: "Cuisine"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, 1, HabitInput{Name: "Lecture", Difficulty: "impossible"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	svc := NewHabitService(fake)
	h := fake.addHabit(1, "Lecture")

	_, err := svc.Update(ctx, h.ID, 2, HabitInput{Name: "Vol"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, 999, 1, HabitInput{Name: "Fantôme"})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Update(ctx, h.ID, 1, HabitInput{Name: "Lecture du soir", Difficulty: "hard"})
	require.NoError(t, err)
	assert.Equal(t, "Lecture du soir", got.Name)
	assert.Equal(t, "hard", got.Difficulty)
	assert.Equal(t, "Sport", got.Category, "omitted field keeps its value")
}

func TestDeleteRequiresOwnership(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	svc := NewHabitService(fake)
	h := fake.addHabit(1, "Lecture")

	assert.ErrorIs(t, svc.Delete(ctx, h.ID, 2), ErrNotFound)
	require.NoError(t, svc.Delete(ctx, h.ID, 1))
	assert.ErrorIs(t, svc.Delete(ctx, h.ID, 1), ErrNotFound)
}

func TestToggleStateMachine(t *testing.T) {
	ctx := context.Background()
	today := mustDay("2025-06-10")
	fake := newFakeStore()
	svc := NewHabitService(fake)
	h := fake.addHabit(1, "Course")

	// NoEntry → Completed.
	res, err := svc.Toggle(ctx, h.ID, 1, today)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, "Habitude marquée comme complétée", res.Message)
	assert.Equal(t, 1, fake.habits[h.ID].BestStreak)

	// Completed → NotCompleted; best streak stays.
	res, err = svc.Toggle(ctx, h.ID, 1, today)
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, "Habitude marquée comme non complétée", res.Message)
	assert.Equal(t, 1, fake.habits[h.ID].BestStreak, "toggle-off never lowers best streak")

	// NotCompleted → Completed flips the existing row, no duplicate created.
	res, err = svc.Toggle(ctx, h.ID, 1, today)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	entryCount := 0
	for _, e := range fake.entries {
		if e.HabitID == h.ID {
			entryCount++
		}
	}
	assert.Equal(t, 1, entryCount, "one row per (habit, date)")
}

func TestToggleRaisesBestStreakOnlyWhenBeaten(t *testing.T) {
	ctx := context.Background()
	today := mustDay("2025-06-10")
	fake := newFakeStore()
	svc := NewHabitService(fake)
	h := fake.addHabit(1, "Course")
	fake.complete(h.ID, "2025-06-08", "2025-06-09")

	hh := fake.habits[h.ID]
	hh.BestStreak = 10
	fake.habits[h.ID] = hh

	res, err := svc.Toggle(ctx, h.ID, 1, today)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	// Streak is now 3, below the recorded 10.
	assert.Equal(t, 10, fake.habits[h.ID].BestStreak)

	hh = fake.habits[h.ID]
	hh.BestStreak = 2
	fake.habits[h.ID] = hh
	_, _ = svc.Toggle(ctx, h.ID, 1, today) // off
	res, err = svc.Toggle(ctx, h.ID, 1, today)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 3, fake.habits[h.ID].BestStreak)
}

func TestToggleUnknownHabit(t *testing.T) {
	ctx := context.Background()
	fake := newFakeStore()
	svc := NewHabitService(fake)
	h := fake.addHabit(1, "Course")

	_, err := svc.Toggle(ctx, h.ID, 2, mustDay("2025-06-10"))
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Toggle(ctx, 42, 1, mustDay("2025-06-10"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListWeekDataAndStreak(t *testing.T) {
	ctx := context.Background()
	// Wednesday June 4 2025; week runs June 2-8.
	today := mustDay("2025-06-04")
	fake := newFakeStore()
	svc := NewHabitService(fake)
	h := fake.addHabit(1, "Lecture")
	fake.complete(h.ID, "2025-06-03", "2025-06-04")
	// Outside the current week, must not show up in weekData.
	fake.complete(h.ID, "2025-05-30")

	list, err := svc.List(ctx, 1, today)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, []bool{false, true, true, false, false, false, false}, got.WeekData)
	assert.Equal(t, 2, got.Streak)
	assert.True(t, got.CompletedToday)
}

func TestListEmpty(t *testing.T) {
	svc := NewHabitService(newFakeStore())
	list, err := svc.List(context.Background(), 1, mustDay("2025-06-04"))
	require.NoError(t, err)
	assert.Empty(t, list)
}
