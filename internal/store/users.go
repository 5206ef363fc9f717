// Package store is the relational persistence layer. Every query returns typed
// rows; callers never see raw column sets.
package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"habitude/internal/models"
)

const userColumns = `id, email, password_hash, name, daily_reminder_enabled,
	weekly_stats_enabled, monthly_stats_enabled, reset_token, reset_token_expires,
	refresh_token, created_at`

type Users struct {
	db *sqlx.DB
}

func NewUsers(db *sqlx.DB) *Users { return &Users{db: db} }

func (s *Users) Create(ctx context.Context, email, passwordHash, name string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowxContext(ctx,
		`INSERT INTO users (email, password_hash, name) VALUES ($1, $2, $3) RETURNING `+userColumns,
		email, passwordHash, name).StructScan(&u)
	return u, err
}

func (s *Users) ByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE email=$1`, email)
	return u, err
}

func (s *Users) ByID(ctx context.Context, id int) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
	return u, err
}

func (s *Users) SetRefreshToken(ctx context.Context, id int, token string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET refresh_token=$1 WHERE id=$2`, token, id)
	return err
}

func (s *Users) SetResetToken(ctx context.Context, id int, token string, expires time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET reset_token=$1, reset_token_expires=$2 WHERE id=$3`, token, expires, id)
	return err
}

// ByResetToken only matches tokens that have not expired yet.
func (s *Users) ByResetToken(ctx context.Context, token string, now time.Time) (models.User, error) {
	var u models.User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE reset_token=$1 AND reset_token_expires > $2`, token, now)
	return u, err
}

// UpdatePassword also burns the reset token so it cannot be replayed.
func (s *Users) UpdatePassword(ctx context.Context, id int, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET password_hash=$1, reset_token=NULL, reset_token_expires=NULL WHERE id=$2`,
		passwordHash, id)
	return err
}

func (s *Users) NotificationPrefs(ctx context.Context, id int) (models.NotificationPrefs, error) {
	var p models.NotificationPrefs
	err := s.db.GetContext(ctx, &p,
		`SELECT daily_reminder_enabled, weekly_stats_enabled, monthly_stats_enabled FROM users WHERE id=$1`, id)
	return p, err
}

func (s *Users) UpdateNotificationPrefs(ctx context.Context, id int, upd models.NotificationPrefsUpdate) error {
	set := []string{}
	args := []interface{}{}
	if upd.DailyReminderEnabled != nil {
		args = append(args, *upd.DailyReminderEnabled)
		set = append(set, "daily_reminder_enabled=$"+strconv.Itoa(len(args)))
	}
	if upd.WeeklyStatsEnabled != nil {
		args = append(args, *upd.WeeklyStatsEnabled)
		set = append(set, "weekly_stats_enabled=$"+strconv.Itoa(len(args)))
	}
	if upd.MonthlyStatsEnabled != nil {
		args = append(args, *upd.MonthlyStatsEnabled)
		set = append(set, "monthly_stats_enabled=$"+strconv.Itoa(len(args)))
	}
	if len(set) == 0 {
		return nil
	}
	args = append(args, id)
	query := "UPDATE users SET " + strings.Join(set, ", ") + " WHERE id=$" + strconv.Itoa(len(args))
	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

// OptedIn lists the users that enabled one of the three notification emails.
func (s *Users) OptedIn(ctx context.Context, pref models.NotificationKind) ([]models.User, error) {
	var col string
	switch pref {
	case models.NotifyDaily:
		col = "daily_reminder_enabled"
	case models.NotifyWeekly:
		col = "weekly_stats_enabled"
	case models.NotifyMonthly:
		col = "monthly_stats_enabled"
	default:
		return nil, fmt.Errorf("unknown notification kind %d", pref)
	}
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE `+col+`=true ORDER BY id`)
	return users, err
}
