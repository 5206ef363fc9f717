package analytics

import (
	"fmt"
	"math"
	"sort"
)

// Entry is one completion row as read from storage, date already formatted as
// an ISO day string.
type Entry struct {
	HabitID   int
	Date      string
	Completed bool
}

// HabitInfo is the slice of a habit the aggregations need.
type HabitInfo struct {
	ID       int
	Name     string
	Category string
}

// DayCount is one day of the weekly chart: how many of the user's habits were
// completed on that date, out of how many habits exist.
type DayCount struct {
	Date      string `json:"date"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// HabitRate is a habit's completion percentage over some window.
type HabitRate struct {
	Name string `json:"name"`
	Rate int    `json:"rate"`
}

func roundPct(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// WeeklyTotals produces one DayCount per date, counting completed entries
// across all of the user's habits. Total is the habit count, constant over the
// week.
func WeeklyTotals(dates []string, entries []Entry, totalHabits int) []DayCount {
	perDay := make(map[string]int)
	for _, e := range entries {
		if e.Completed {
			perDay[e.Date]++
		}
	}
	out := make([]DayCount, len(dates))
	for i, d := range dates {
		out[i] = DayCount{Date: d, Completed: perDay[d], Total: totalHabits}
	}
	return out
}

// HabitRates computes each habit's completion percentage over the given
// window, dividing by the window length. For the current week the caller
// passes the elapsed days only, so early-week users are not penalized.
func HabitRates(habits []HabitInfo, entries []Entry, window []string) []HabitRate {
	inWindow := make(map[string]bool, len(window))
	for _, d := range window {
		inWindow[d] = true
	}
	perHabit := make(map[int]int)
	for _, e := range entries {
		if e.Completed && inWindow[e.Date] {
			perHabit[e.HabitID]++
		}
	}
	out := make([]HabitRate, len(habits))
	for i, h := range habits {
		out[i] = HabitRate{Name: h.Name, Rate: roundPct(perHabit[h.ID], len(window))}
	}
	return out
}

// BestWorst picks the highest- and lowest-rated habits. When every habit has
// the same rate there is nothing meaningful to single out, so both are nil;
// that holds for all-zero and all-100 alike.
func BestWorst(rates []HabitRate) (best, worst *HabitRate) {
	if len(rates) == 0 {
		return nil, nil
	}
	sorted := make([]HabitRate, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rate > sorted[j].Rate })

	allEqual := true
	for _, r := range sorted[1:] {
		if r.Rate != sorted[0].Rate {
			allEqual = false
			break
		}
	}
	if allEqual {
		return nil, nil
	}
	b, w := sorted[0], sorted[len(sorted)-1]
	return &b, &w
}

// SuccessRate is today's completion percentage; 0 when the user has no habits.
func SuccessRate(completedToday, totalHabits int) int {
	return roundPct(completedToday, totalHabits)
}

// AveragePerDay averages completions over the days of the week that have
// already passed, formatted with one decimal as the dashboard expects.
func AveragePerDay(week []DayCount, today string) string {
	sum, n := 0, 0
	for _, d := range week {
		if d.Date <= today {
			sum += d.Completed
			n++
		}
	}
	if n == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(sum)/float64(n))
}

// CompletedDays counts the days of the window on which at least one habit was
// completed.
func CompletedDays(window []string, entries []Entry) int {
	inWindow := make(map[string]bool, len(window))
	for _, d := range window {
		inWindow[d] = true
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		if e.Completed && inWindow[e.Date] {
			seen[e.Date] = true
		}
	}
	return len(seen)
}

// WindowCompletionRate is the overall completed/possible percentage for a
// fully elapsed window: possible = habits × window length.
func WindowCompletionRate(habitCount int, window []string, entries []Entry) int {
	inWindow := make(map[string]bool, len(window))
	for _, d := range window {
		inWindow[d] = true
	}
	completed := 0
	for _, e := range entries {
		if e.Completed && inWindow[e.Date] {
			completed++
		}
	}
	return roundPct(completed, habitCount*len(window))
}

// TopHabits returns the n best-rated habits, highest first.
func TopHabits(rates []HabitRate, n int) []HabitRate {
	sorted := make([]HabitRate, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rate > sorted[j].Rate })
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
