package analytics

import "time"

// ActivityData maps every date of a range to the completion state of every
// habit, dates and habits with no entries included as false.
type ActivityData map[string]map[int]bool

// HabitDayStats is one habit's completion count over the elapsed days of a
// range.
type HabitDayStats struct {
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Name      string `json:"name"`
	Category  string `json:"category"`
}

// BestHabit identifies the habit with the highest completion percentage in a
// range. Ties keep the first maximal element in habit order.
type BestHabit struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Percentage int    `json:"percentage"`
}

// CalendarStats summarizes a date range for the calendar view. Totals count
// only elapsed days even when the requested range extends into the future.
type CalendarStats struct {
	TotalDays                int                   `json:"totalDays"`
	TotalPossibleCompletions int                   `json:"totalPossibleCompletions"`
	TotalCompletions         int                   `json:"totalCompletions"`
	CompletedDays            int                   `json:"completedDays"`
	HabitStats               map[int]HabitDayStats `json:"habitStats"`
	BestHabit                *BestHabit            `json:"bestHabit"`
}

// ActivityMatrix expands [start, end] into the dense date→habit→bool grid,
// overlaying true wherever a completed entry exists.
func ActivityMatrix(habitIDs []int, start, end string, entries []Entry) (ActivityData, error) {
	dates, err := RangeDates(start, end)
	if err != nil {
		return nil, err
	}
	data := make(ActivityData, len(dates))
	for _, d := range dates {
		row := make(map[int]bool, len(habitIDs))
		for _, id := range habitIDs {
			row[id] = false
		}
		data[d] = row
	}
	for _, e := range entries {
		if row, ok := data[e.Date]; ok && e.Completed {
			row[e.HabitID] = true
		}
	}
	return data, nil
}

// RangeStats computes per-habit and overall completion stats for [start, end],
// clipped to days at or before today.
func RangeStats(habits []HabitInfo, entries []Entry, start, end string, today time.Time) (CalendarStats, error) {
	stats := CalendarStats{HabitStats: make(map[int]HabitDayStats, len(habits))}
	if len(habits) == 0 {
		return stats, nil
	}

	elapsed, err := ElapsedInRange(start, end, today)
	if err != nil {
		return CalendarStats{}, err
	}
	stats.TotalDays = elapsed
	stats.TotalPossibleCompletions = len(habits) * elapsed

	perHabit := make(map[int]int, len(habits))
	completedDates := make(map[string]bool)
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		perHabit[e.HabitID]++
		completedDates[e.Date] = true
		stats.TotalCompletions++
	}
	stats.CompletedDays = len(completedDates)

	for _, h := range habits {
		stats.HabitStats[h.ID] = HabitDayStats{
			Completed: perHabit[h.ID],
			Total:     elapsed,
			Name:      h.Name,
			Category:  h.Category,
		}
	}

	// Every habit shares the same elapsed-day denominator, so ranking by raw
	// count is ranking by exact percentage. Strict > keeps ties first-maximal
	// and leaves BestHabit nil when nothing was completed.
	bestCount := 0
	for _, h := range habits {
		if perHabit[h.ID] > bestCount {
			bestCount = perHabit[h.ID]
			stats.BestHabit = &BestHabit{
				ID:         h.ID,
				Name:       h.Name,
				Category:   h.Category,
				Percentage: roundPct(perHabit[h.ID], elapsed),
			}
		}
	}
	return stats, nil
}
