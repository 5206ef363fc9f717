// Package jobs runs the background email schedule: a daily reminder, a
// weekly digest every Monday and a monthly digest on the 1st.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"habitude/internal/analytics"
	"habitude/internal/models"
	"habitude/internal/services"
)

type UserSource interface {
	OptedIn(ctx context.Context, pref models.NotificationKind) ([]models.User, error)
}

type HabitCounter interface {
	CountByUser(ctx context.Context, userID int) (int, error)
	CountCompletedForDate(ctx context.Context, userID int, date string) (int, error)
}

type DigestSource interface {
	WeeklyDigest(ctx context.Context, userID int, today time.Time) (services.WeeklyDigest, error)
	MonthlyDigest(ctx context.Context, userID int, today time.Time) (services.MonthlyDigest, error)
}

type DigestMailer interface {
	SendDailyReminder(to, name string, remaining int) error
	SendWeeklyDigest(to, name string, digest services.WeeklyDigest) error
	SendMonthlyDigest(to, name string, digest services.MonthlyDigest) error
}

type Notifier struct {
	users  UserSource
	habits HabitCounter
	stats  DigestSource
	mailer DigestMailer
	hour   int

	lastDaily   string
	lastWeekly  string
	lastMonthly string
}

func NewNotifier(users UserSource, habits HabitCounter, stats DigestSource, mailer DigestMailer, hour int) *Notifier {
	return &Notifier{users: users, habits: habits, stats: stats, mailer: mailer, hour: hour}
}

// Run ticks hourly until the context is cancelled. One failed email never
// stops the batch.
func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	n.Tick(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.Tick(ctx, time.Now())
		}
	}
}

// Tick sends whatever is due at the given instant. Exported so the
// schedule can be tested without a real clock.
func (n *Notifier) Tick(ctx context.Context, now time.Time) {
	if now.Hour() != n.hour {
		return
	}
	today := now.Format(analytics.DateLayout)

	if n.lastDaily != today {
		n.lastDaily = today
		n.sendDailyReminders(ctx, today)
	}
	if now.Weekday() == time.Monday && n.lastWeekly != today {
		n.lastWeekly = today
		n.sendWeeklyDigests(ctx, now)
	}
	if now.Day() == 1 && n.lastMonthly != today {
		n.lastMonthly = today
		n.sendMonthlyDigests(ctx, now)
	}
}

func (n *Notifier) sendDailyReminders(ctx context.Context, today string) {
	users, err := n.users.OptedIn(ctx, models.NotifyDaily)
	if err != nil {
		slog.Error("daily reminder batch failed", "error", err)
		return
	}
	for _, u := range users {
		total, err := n.habits.CountByUser(ctx, u.ID)
		if err != nil || total == 0 {
			continue
		}
		done, err := n.habits.CountCompletedForDate(ctx, u.ID, today)
		if err != nil {
			slog.Error("daily reminder count failed", "error", err, "user_id", u.ID)
			continue
		}
		if err := n.mailer.SendDailyReminder(u.Email, u.Name, total-done); err != nil {
			slog.Error("daily reminder send failed", "error", err, "user_id", u.ID)
		}
	}
	slog.Info("daily reminders sent", "users", len(users))
}

func (n *Notifier) sendWeeklyDigests(ctx context.Context, now time.Time) {
	users, err := n.users.OptedIn(ctx, models.NotifyWeekly)
	if err != nil {
		slog.Error("weekly digest batch failed", "error", err)
		return
	}
	for _, u := range users {
		digest, err := n.stats.WeeklyDigest(ctx, u.ID, now)
		if err != nil {
			slog.Error("weekly digest failed", "error", err, "user_id", u.ID)
			continue
		}
		if err := n.mailer.SendWeeklyDigest(u.Email, u.Name, digest); err != nil {
			slog.Error("weekly digest send failed", "error", err, "user_id", u.ID)
		}
	}
	slog.Info("weekly digests sent", "users", len(users))
}

func (n *Notifier) sendMonthlyDigests(ctx context.Context, now time.Time) {
	users, err := n.users.OptedIn(ctx, models.NotifyMonthly)
	if err != nil {
		slog.Error("monthly digest batch failed", "error", err)
		return
	}
	for _, u := range users {
		digest, err := n.stats.MonthlyDigest(ctx, u.ID, now)
		if err != nil {
			slog.Error("monthly digest failed", "error", err, "user_id", u.ID)
			continue
		}
		if err := n.mailer.SendMonthlyDigest(u.Email, u.Name, digest); err != nil {
			slog.Error("monthly digest send failed", "error", err, "user_id", u.ID)
		}
	}
	slog.Info("monthly digests sent", "users", len(users))
}
