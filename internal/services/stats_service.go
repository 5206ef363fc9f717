package services

import (
	"context"
	"time"

	"habitude/internal/analytics"
	"habitude/internal/models"
)

type StatsService struct {
	habits HabitStore
}

func NewStatsService(habits HabitStore) *StatsService {
	return &StatsService{habits: habits}
}

// Stats is the dashboard payload for GET /stats.
type Stats struct {
	TotalHabits            int                  `json:"totalHabits"`
	CompletedToday         int                  `json:"completedToday"`
	TotalCompletedThisWeek int                  `json:"totalCompletedThisWeek"`
	AveragePerDay          string               `json:"averagePerDay"`
	LongestStreak          int                  `json:"longestStreak"`
	LongestStreakName      string               `json:"longestStreakName"`
	SuccessRate            int                  `json:"successRate"`
	WeeklyData             []analytics.DayCount `json:"weeklyData"`
	BestHabit              *analytics.HabitRate `json:"bestHabit"`
	WorstHabit             *analytics.HabitRate `json:"worstHabit"`
}

// WeeklyDigest feeds the weekly stats email: the last full Monday-to-Sunday
// week, fully elapsed by construction, so rates divide by 7.
type WeeklyDigest struct {
	CompletionRate int
	CompletedDays  int
	BestStreak     int
	TopHabits      []analytics.HabitRate
}

// MonthlyDigest covers the previous calendar month, with the month before
// that as the trend baseline.
type MonthlyDigest struct {
	TotalHabits              int
	CompletionRate           int
	CompletedDays            int
	TotalDaysInMonth         int
	BestStreak               int
	TopHabits                []analytics.HabitRate
	MonthName                string
	ImprovementFromLastMonth int
}

func (s *StatsService) UserStats(ctx context.Context, userID int, today time.Time) (Stats, error) {
	habits, err := s.habits.ByUser(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	todayStr := analytics.Midnight(today).Format(analytics.DateLayout)

	completedToday, err := s.habits.CountCompletedForDate(ctx, userID, todayStr)
	if err != nil {
		return Stats{}, err
	}

	longest, longestName, err := s.longestStreak(ctx, habits, today)
	if err != nil {
		return Stats{}, err
	}

	week := analytics.WeekDates(today)
	ids, infos := habitRefs(habits)
	entries, err := s.habits.EntriesInRange(ctx, ids, week[0], week[6])
	if err != nil {
		return Stats{}, err
	}

	weekly := analytics.WeeklyTotals(week, entries, len(habits))
	totalThisWeek := 0
	for _, d := range weekly {
		totalThisWeek += d.Completed
	}

	rates := analytics.HabitRates(infos, entries, analytics.ElapsedWeekDates(today))
	best, worst := analytics.BestWorst(rates)

	return Stats{
		TotalHabits:            len(habits),
		CompletedToday:         completedToday,
		TotalCompletedThisWeek: totalThisWeek,
		AveragePerDay:          analytics.AveragePerDay(weekly, todayStr),
		LongestStreak:          longest,
		LongestStreakName:      longestName,
		SuccessRate:            analytics.SuccessRate(completedToday, len(habits)),
		WeeklyData:             weekly,
		BestHabit:              best,
		WorstHabit:             worst,
	}, nil
}

func (s *StatsService) WeeklyDigest(ctx context.Context, userID int, today time.Time) (WeeklyDigest, error) {
	habits, err := s.habits.ByUser(ctx, userID)
	if err != nil {
		return WeeklyDigest{}, err
	}
	window := analytics.PreviousWeekDates(today)
	ids, infos := habitRefs(habits)
	entries, err := s.habits.EntriesInRange(ctx, ids, window[0], window[6])
	if err != nil {
		return WeeklyDigest{}, err
	}

	longest, _, err := s.longestStreak(ctx, habits, today)
	if err != nil {
		return WeeklyDigest{}, err
	}

	rates := analytics.HabitRates(infos, entries, window)
	return WeeklyDigest{
		CompletionRate: analytics.WindowCompletionRate(len(habits), window, entries),
		CompletedDays:  analytics.CompletedDays(window, entries),
		BestStreak:     longest,
		TopHabits:      analytics.TopHabits(rates, 3),
	}, nil
}

func (s *StatsService) MonthlyDigest(ctx context.Context, userID int, today time.Time) (MonthlyDigest, error) {
	habits, err := s.habits.ByUser(ctx, userID)
	if err != nil {
		return MonthlyDigest{}, err
	}
	window, monthName := analytics.PreviousMonthDates(today)
	ids, infos := habitRefs(habits)
	entries, err := s.habits.EntriesInRange(ctx, ids, window[0], window[len(window)-1])
	if err != nil {
		return MonthlyDigest{}, err
	}

	baseline := analytics.TwoMonthsAgoDates(today)
	baselineEntries, err := s.habits.EntriesInRange(ctx, ids, baseline[0], baseline[len(baseline)-1])
	if err != nil {
		return MonthlyDigest{}, err
	}

	longest, _, err := s.longestStreak(ctx, habits, today)
	if err != nil {
		return MonthlyDigest{}, err
	}

	rate := analytics.WindowCompletionRate(len(habits), window, entries)
	baselineRate := analytics.WindowCompletionRate(len(habits), baseline, baselineEntries)
	rates := analytics.HabitRates(infos, entries, window)

	return MonthlyDigest{
		TotalHabits:              len(habits),
		CompletionRate:           rate,
		CompletedDays:            analytics.CompletedDays(window, entries),
		TotalDaysInMonth:         len(window),
		BestStreak:               longest,
		TopHabits:                analytics.TopHabits(rates, 5),
		MonthName:                monthName,
		ImprovementFromLastMonth: rate - baselineRate,
	}, nil
}

// longestStreak keeps the first habit on ties, matching habit order.
func (s *StatsService) longestStreak(ctx context.Context, habits []models.Habit, today time.Time) (int, string, error) {
	longest, name := 0, ""
	for _, h := range habits {
		dates, err := s.habits.CompletedDates(ctx, h.ID)
		if err != nil {
			return 0, "", err
		}
		if streak := analytics.Streak(dates, today); streak > longest {
			longest, name = streak, h.Name
		}
	}
	return longest, name, nil
}

func habitRefs(habits []models.Habit) ([]int, []analytics.HabitInfo) {
	ids := make([]int, len(habits))
	infos := make([]analytics.HabitInfo, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
		infos[i] = analytics.HabitInfo{ID: h.ID, Name: h.Name, Category: h.Category}
	}
	return ids, infos
}
