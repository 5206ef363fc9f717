package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"habitude/internal/analytics"
	"habitude/internal/models"
)

const habitColumns = `id, user_id, name, description, category, difficulty, best_streak, created_at`

type Habits struct {
	db *sqlx.DB
}

func NewHabits(db *sqlx.DB) *Habits { return &Habits{db: db} }

func (s *Habits) ByUser(ctx context.Context, userID int) ([]models.Habit, error) {
	var habits []models.Habit
	err := s.db.SelectContext(ctx, &habits,
		`SELECT `+habitColumns+` FROM habits WHERE user_id=$1 ORDER BY created_at DESC, id DESC`, userID)
	return habits, err
}

func (s *Habits) IDsByUser(ctx context.Context, userID int) ([]int, error) {
	var ids []int
	err := s.db.SelectContext(ctx, &ids, `SELECT id FROM habits WHERE user_id=$1 ORDER BY id`, userID)
	return ids, err
}

func (s *Habits) CountByUser(ctx context.Context, userID int) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM habits WHERE user_id=$1`, userID)
	return n, err
}

// Get scopes by owner; a habit belonging to someone else reads as absent.
func (s *Habits) Get(ctx context.Context, habitID, userID int) (models.Habit, error) {
	var h models.Habit
	err := s.db.GetContext(ctx, &h,
		`SELECT `+habitColumns+` FROM habits WHERE id=$1 AND user_id=$2`, habitID, userID)
	return h, err
}

func (s *Habits) Create(ctx context.Context, userID int, name, description, category, difficulty string) (models.Habit, error) {
	var h models.Habit
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO habits (user_id, name, description, category, difficulty)
		 VALUES ($1, $2, $3, $4, $5) RETURNING `+habitColumns,
		userID, name, description, category, difficulty).StructScan(&h)
	return h, err
}

func (s *Habits) Update(ctx context.Context, habitID int, name, description, category, difficulty string) (models.Habit, error) {
	var h models.Habit
	err := s.db.QueryRowxContext(ctx,
		`UPDATE habits SET name=$1, description=$2, category=$3, difficulty=$4
		 WHERE id=$5 RETURNING `+habitColumns,
		name, description, category, difficulty, habitID).StructScan(&h)
	return h, err
}

// Delete cascades to the habit's entries through the foreign key.
func (s *Habits) Delete(ctx context.Context, habitID int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM habits WHERE id=$1`, habitID)
	return err
}

// CompletedDates returns the habit's completed days newest first, the exact
// shape the streak walk consumes.
func (s *Habits) CompletedDates(ctx context.Context, habitID int) ([]string, error) {
	rows, err := s.db.QueryxContext(ctx,
		`SELECT to_char(date, 'YYYY-MM-DD') FROM habit_entries
		 WHERE habit_id=$1 AND completed=true ORDER BY date DESC`, habitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// EntryForDate reports whether a row exists for the (habit, date) pair.
func (s *Habits) EntryForDate(ctx context.Context, habitID int, date string) (models.HabitEntry, bool, error) {
	var e models.HabitEntry
	err := s.db.GetContext(ctx, &e,
		`SELECT id, habit_id, date, completed FROM habit_entries WHERE habit_id=$1 AND date=$2`,
		habitID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return models.HabitEntry{}, false, nil
	}
	if err != nil {
		return models.HabitEntry{}, false, err
	}
	return e, true, nil
}

func (s *Habits) CreateEntry(ctx context.Context, habitID int, date string, completed bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO habit_entries (habit_id, date, completed) VALUES ($1, $2, $3)`,
		habitID, date, completed)
	return err
}

func (s *Habits) SetEntryCompleted(ctx context.Context, entryID int, completed bool) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE habit_entries SET completed=$1 WHERE id=$2`, completed, entryID)
	return err
}

// RaiseBestStreak only ever increases the stored value; the conditional update
// closes the race between two concurrent toggles reading the same pre-update
// streak.
func (s *Habits) RaiseBestStreak(ctx context.Context, habitID, streak int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE habits SET best_streak=$1 WHERE id=$2 AND best_streak < $1`, streak, habitID)
	return err
}

// EntriesInRange loads all entries for the given habits between start and end
// inclusive, dates formatted as ISO day strings.
func (s *Habits) EntriesInRange(ctx context.Context, habitIDs []int, start, end string) ([]analytics.Entry, error) {
	if len(habitIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(
		`SELECT habit_id, to_char(date, 'YYYY-MM-DD') AS date, completed
		 FROM habit_entries WHERE habit_id IN (?) AND date BETWEEN ? AND ?`,
		habitIDs, start, end)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var entries []analytics.Entry
	for rows.Next() {
		var e analytics.Entry
		if err := rows.Scan(&e.HabitID, &e.Date, &e.Completed); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CountCompletedForDate counts the user's habits completed on one day.
func (s *Habits) CountCompletedForDate(ctx context.Context, userID int, date string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM habit_entries he
		 JOIN habits h ON h.id = he.habit_id
		 WHERE h.user_id=$1 AND he.date=$2 AND he.completed=true`, userID, date)
	return n, err
}
