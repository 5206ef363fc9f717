package models

import "time"

// Habit categories and difficulties are closed enums; anything else is rejected
// at the handler boundary.
var (
	Categories   = []string{"Sport", "Détente", "Apprentissage", "Santé", "Travail", "Social"}
	Difficulties = []string{"easy", "medium", "hard"}
)

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidDifficulty(d string) bool {
	for _, v := range Difficulties {
		if v == d {
			return true
		}
	}
	return false
}

type User struct {
	ID                   int        `db:"id" json:"id"`
	Email                string     `db:"email" json:"email"`
	PasswordHash         string     `db:"password_hash" json:"-"`
	Name                 string     `db:"name" json:"name"`
	DailyReminderEnabled bool       `db:"daily_reminder_enabled" json:"daily_reminder_enabled"`
	WeeklyStatsEnabled   bool       `db:"weekly_stats_enabled" json:"weekly_stats_enabled"`
	MonthlyStatsEnabled  bool       `db:"monthly_stats_enabled" json:"monthly_stats_enabled"`
	ResetToken           *string    `db:"reset_token" json:"-"`
	ResetTokenExpires    *time.Time `db:"reset_token_expires" json:"-"`
	RefreshToken         *string    `db:"refresh_token" json:"-"`
	CreatedAt            time.Time  `db:"created_at" json:"created_at"`
}

type Habit struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Category    string    `db:"category" json:"category"`
	Difficulty  string    `db:"difficulty" json:"difficulty"`
	BestStreak  int       `db:"best_streak" json:"best_streak"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// HabitEntry is one calendar day for one habit. At most one row per
// (habit, date); absence means not completed.
type HabitEntry struct {
	ID        int       `db:"id" json:"id"`
	HabitID   int       `db:"habit_id" json:"habit_id"`
	Date      time.Time `db:"date" json:"date"`
	Completed bool      `db:"completed" json:"completed"`
}

type NotificationPrefs struct {
	DailyReminderEnabled bool `db:"daily_reminder_enabled" json:"daily_reminder_enabled"`
	WeeklyStatsEnabled   bool `db:"weekly_stats_enabled" json:"weekly_stats_enabled"`
	MonthlyStatsEnabled  bool `db:"monthly_stats_enabled" json:"monthly_stats_enabled"`
}

// NotificationPrefsUpdate carries only the flags the caller supplied.
type NotificationPrefsUpdate struct {
	DailyReminderEnabled *bool `json:"daily_reminder_enabled"`
	WeeklyStatsEnabled   *bool `json:"weekly_stats_enabled"`
	MonthlyStatsEnabled  *bool `json:"monthly_stats_enabled"`
}

type NotificationKind int

const (
	NotifyDaily NotificationKind = iota
	NotifyWeekly
	NotifyMonthly
)
