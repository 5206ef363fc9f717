package analytics

import "time"

// Streak counts the consecutive run of completed days ending today. The dates
// must be the habit's completed days sorted descending. The walk is anchored to
// today: position i must equal today minus i days, so a habit not completed
// today has a streak of 0 no matter what happened yesterday.
func Streak(completedDesc []string, today time.Time) int {
	day := Midnight(today)
	streak := 0
	for _, d := range completedDesc {
		if d != day.Format(DateLayout) {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
