// Package services holds the application logic between the HTTP handlers and
// the store: habit CRUD with the five-habit cap, the toggle state machine, and
// the stat/calendar aggregations built on the analytics package.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"habitude/internal/analytics"
	"habitude/internal/models"
)

// MaxHabitsPerUser caps how many habits one user may own, checked at creation
// only.
const MaxHabitsPerUser = 5

// HabitStore is the persistence surface the services need. *store.Habits
// satisfies it; tests substitute a fake.
type HabitStore interface {
	ByUser(ctx context.Context, userID int) ([]models.Habit, error)
	IDsByUser(ctx context.Context, userID int) ([]int, error)
	CountByUser(ctx context.Context, userID int) (int, error)
	Get(ctx context.Context, habitID, userID int) (models.Habit, error)
	Create(ctx context.Context, userID int, name, description, category, difficulty string) (models.Habit, error)
	Update(ctx context.Context, habitID int, name, description, category, difficulty string) (models.Habit, error)
	Delete(ctx context.Context, habitID int) error
	CompletedDates(ctx context.Context, habitID int) ([]string, error)
	EntryForDate(ctx context.Context, habitID int, date string) (models.HabitEntry, bool, error)
	CreateEntry(ctx context.Context, habitID int, date string, completed bool) error
	SetEntryCompleted(ctx context.Context, entryID int, completed bool) error
	RaiseBestStreak(ctx context.Context, habitID, streak int) error
	EntriesInRange(ctx context.Context, habitIDs []int, start, end string) ([]analytics.Entry, error)
	CountCompletedForDate(ctx context.Context, userID int, date string) (int, error)
}

type HabitService struct {
	habits HabitStore
}

func NewHabitService(habits HabitStore) *HabitService {
	return &HabitService{habits: habits}
}

type HabitInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
}

// HabitWithWeek is a habit decorated for the dashboard list: this week's
// Monday-first completion booleans, the current streak, and today's state.
type HabitWithWeek struct {
	models.Habit
	CompletedToday bool   `json:"completed_today"`
	WeekData       []bool `json:"weekData"`
	Streak         int    `json:"streak"`
}

type ToggleResult struct {
	Completed bool   `json:"completed"`
	Message   string `json:"message"`
}

// List returns the user's habits with week data and streaks.
func (s *HabitService) List(ctx context.Context, userID int, today time.Time) ([]HabitWithWeek, error) {
	habits, err := s.habits.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	week := analytics.WeekDates(today)
	ids := make([]int, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	entries, err := s.habits.EntriesInRange(ctx, ids, week[0], week[6])
	if err != nil {
		return nil, err
	}
	completed := make(map[int]map[string]bool, len(habits))
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		if completed[e.HabitID] == nil {
			completed[e.HabitID] = make(map[string]bool)
		}
		completed[e.HabitID][e.Date] = true
	}

	todayStr := analytics.Midnight(today).Format(analytics.DateLayout)
	out := make([]HabitWithWeek, 0, len(habits))
	for _, h := range habits {
		dates, err := s.habits.CompletedDates(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		weekData := make([]bool, 7)
		for i, d := range week {
			weekData[i] = completed[h.ID][d]
		}
		out = append(out, HabitWithWeek{
			Habit:          h,
			CompletedToday: completed[h.ID][todayStr],
			WeekData:       weekData,
			Streak:         analytics.Streak(dates, today),
		})
	}
	return out, nil
}

// Create inserts a habit after enforcing the per-user cap. Omitted fields get
// the documented defaults.
func (s *HabitService) Create(ctx context.Context, userID int, in HabitInput) (models.Habit, error) {
	in, err := normalizeInput(in)
	if err != nil {
		return models.Habit{}, err
	}

	count, err := s.habits.CountByUser(ctx, userID)
	if err != nil {
		return models.Habit{}, err
	}
	if count >= MaxHabitsPerUser {
		return models.Habit{}, ErrHabitLimit
	}
	return s.habits.Create(ctx, userID, in.Name, in.Description, in.Category, in.Difficulty)
}

// Update replaces the habit's mutable fields. Ownership is a precondition;
// fields the caller leaves empty keep their current values.
func (s *HabitService) Update(ctx context.Context, habitID, userID int, in HabitInput) (models.Habit, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return models.Habit{}, err
	}
	if in.Category == "" {
		in.Category = habit.Category
	}
	if in.Difficulty == "" {
		in.Difficulty = habit.Difficulty
	}
	in, err = normalizeInput(in)
	if err != nil {
		return models.Habit{}, err
	}
	return s.habits.Update(ctx, habitID, in.Name, in.Description, in.Category, in.Difficulty)
}

func (s *HabitService) Delete(ctx context.Context, habitID, userID int) error {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return err
	}
	return s.habits.Delete(ctx, habitID)
}

// Toggle flips today's completion state for the habit. First touch of a day
// creates the entry completed; later toggles flip the existing row. Whenever
// the habit lands on completed, the streak is recomputed and the stored best
// streak raised if beaten; toggling off never lowers it.
func (s *HabitService) Toggle(ctx context.Context, habitID, userID int, today time.Time) (ToggleResult, error) {
	habit, err := s.ownedHabit(ctx, habitID, userID)
	if err != nil {
		return ToggleResult{}, err
	}

	date := analytics.Midnight(today).Format(analytics.DateLayout)
	entry, exists, err := s.habits.EntryForDate(ctx, habitID, date)
	if err != nil {
		return ToggleResult{}, err
	}

	completed := true
	if exists {
		completed = !entry.Completed
		if err := s.habits.SetEntryCompleted(ctx, entry.ID, completed); err != nil {
			return ToggleResult{}, err
		}
	} else {
		if err := s.habits.CreateEntry(ctx, habitID, date, true); err != nil {
			return ToggleResult{}, err
		}
	}

	if completed {
		dates, err := s.habits.CompletedDates(ctx, habitID)
		if err != nil {
			return ToggleResult{}, err
		}
		if streak := analytics.Streak(dates, today); streak > habit.BestStreak {
			if err := s.habits.RaiseBestStreak(ctx, habitID, streak); err != nil {
				return ToggleResult{}, err
			}
		}
	}

	msg := "Habitude marquée comme complétée"
	if !completed {
		msg = "Habitude marquée comme non complétée"
	}
	return ToggleResult{Completed: completed, Message: msg}, nil
}

func (s *HabitService) ownedHabit(ctx context.Context, habitID, userID int) (models.Habit, error) {
	habit, err := s.habits.Get(ctx, habitID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, ErrNotFound
	}
	if err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func normalizeInput(in HabitInput) (HabitInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, fmt.Errorf("%w: le nom est requis", ErrValidation)
	}
	if in.Category == "" {
		in.Category = "Sport"
	}
	if in.Difficulty == "" {
		in.Difficulty = "easy"
	}
	if !models.ValidCategory(in.Category) {
		return in, fmt.Errorf("%w: catégorie inconnue %q", ErrValidation, in.Category)
	}
	if !models.ValidDifficulty(in.Difficulty) {
		return in, fmt.Errorf("%w: difficulté inconnue %q", ErrValidation, in.Difficulty)
	}
	return in, nil
}
