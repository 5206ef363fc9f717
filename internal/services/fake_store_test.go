package services

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"habitude/internal/analytics"
	"habitude/internal/models"
)

func mustDay(s string) time.Time {
	t, err := time.Parse(analytics.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// fakeStore is an in-memory HabitStore for service tests.
type fakeStore struct {
	habits  map[int]models.Habit
	entries map[int]models.HabitEntry
	nextID  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		habits:  make(map[int]models.Habit),
		entries: make(map[int]models.HabitEntry),
	}
}

func (f *fakeStore) addHabit(userID int, name string) models.Habit {
	f.nextID++
	h := models.Habit{ID: f.nextID, UserID: userID, Name: name, Category: "Sport", Difficulty: "easy"}
	f.habits[h.ID] = h
	return h
}

func (f *fakeStore) complete(habitID int, dates ...string) {
	for _, d := range dates {
		f.nextID++
		f.entries[f.nextID] = models.HabitEntry{ID: f.nextID, HabitID: habitID, Date: mustDay(d), Completed: true}
	}
}

func (f *fakeStore) ByUser(_ context.Context, userID int) ([]models.Habit, error) {
	var out []models.Habit
	for _, h := range f.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) IDsByUser(ctx context.Context, userID int) ([]int, error) {
	habits, _ := f.ByUser(ctx, userID)
	ids := make([]int, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	return ids, nil
}

func (f *fakeStore) CountByUser(ctx context.Context, userID int) (int, error) {
	habits, _ := f.ByUser(ctx, userID)
	return len(habits), nil
}

func (f *fakeStore) Get(_ context.Context, habitID, userID int) (models.Habit, error) {
	h, ok := f.habits[habitID]
	if !ok || h.UserID != userID {
		return models.Habit{}, sql.ErrNoRows
	}
	return h, nil
}

func (f *fakeStore) Create(_ context.Context, userID int, name, description, category, difficulty string) (models.Habit, error) {
	f.nextID++
	h := models.Habit{
		ID: f.nextID, UserID: userID, Name: name,
		Description: description, Category: category, Difficulty: difficulty,
	}
	f.habits[h.ID] = h
	return h, nil
}

func (f *fakeStore) Update(_ context.Context, habitID int, name, description, category, difficulty string) (models.Habit, error) {
	h := f.habits[habitID]
	h.Name, h.Description, h.Category, h.Difficulty = name, description, category, difficulty
	f.habits[habitID] = h
	return h, nil
}

func (f *fakeStore) Delete(_ context.Context, habitID int) error {
	delete(f.habits, habitID)
	for id, e := range f.entries {
		if e.HabitID == habitID {
			delete(f.entries, id)
		}
	}
	return nil
}

func (f *fakeStore) CompletedDates(_ context.Context, habitID int) ([]string, error) {
	var dates []string
	for _, e := range f.entries {
		if e.HabitID == habitID && e.Completed {
			dates = append(dates, e.Date.Format(analytics.DateLayout))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func (f *fakeStore) EntryForDate(_ context.Context, habitID int, date string) (models.HabitEntry, bool, error) {
	for _, e := range f.entries {
		if e.HabitID == habitID && e.Date.Format(analytics.DateLayout) == date {
			return e, true, nil
		}
	}
	return models.HabitEntry{}, false, nil
}

func (f *fakeStore) CreateEntry(_ context.Context, habitID int, date string, completed bool) error {
	f.nextID++
	f.entries[f.nextID] = models.HabitEntry{ID: f.nextID, HabitID: habitID, Date: mustDay(date), Completed: completed}
	return nil
}

func (f *fakeStore) SetEntryCompleted(_ context.Context, entryID int, completed bool) error {
	e := f.entries[entryID]
	e.Completed = completed
	f.entries[entryID] = e
	return nil
}

func (f *fakeStore) RaiseBestStreak(_ context.Context, habitID, streak int) error {
	h := f.habits[habitID]
	if streak > h.BestStreak {
		h.BestStreak = streak
		f.habits[habitID] = h
	}
	return nil
}

func (f *fakeStore) EntriesInRange(_ context.Context, habitIDs []int, start, end string) ([]analytics.Entry, error) {
	wanted := make(map[int]bool, len(habitIDs))
	for _, id := range habitIDs {
		wanted[id] = true
	}
	var out []analytics.Entry
	for _, e := range f.entries {
		d := e.Date.Format(analytics.DateLayout)
		if wanted[e.HabitID] && d >= start && d <= end {
			out = append(out, analytics.Entry{HabitID: e.HabitID, Date: d, Completed: e.Completed})
		}
	}
	return out, nil
}

func (f *fakeStore) CountCompletedForDate(_ context.Context, userID int, date string) (int, error) {
	n := 0
	for _, e := range f.entries {
		h, ok := f.habits[e.HabitID]
		if ok && h.UserID == userID && e.Completed && e.Date.Format(analytics.DateLayout) == date {
			n++
		}
	}
	return n, nil
}
