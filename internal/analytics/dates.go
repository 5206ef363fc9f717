// Package analytics computes streaks, weekly and monthly rollups, and calendar
// activity matrices from habit completion entries. Everything here is pure:
// the reference day is always passed in, never read from the clock.
package analytics

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var frenchMonths = [...]string{
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekMonday returns the most recent Monday at or before today. A Sunday is
// treated as day 7 of the running week, not day 1 of the next one.
func weekMonday(today time.Time) time.Time {
	today = Midnight(today)
	diff := int(today.Weekday()) - int(time.Monday)
	if today.Weekday() == time.Sunday {
		diff = 6
	}
	return today.AddDate(0, 0, -diff)
}

// WeekDates returns the 7 dates of the Monday-to-Sunday week containing today,
// Monday first, including days that have not happened yet.
func WeekDates(today time.Time) []string {
	monday := weekMonday(today)
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// ElapsedWeekDates returns the current week truncated to days at or before
// today: length 1 on a Monday, 7 on a Sunday.
func ElapsedWeekDates(today time.Time) []string {
	monday := weekMonday(today)
	elapsed := int(today.Weekday())
	if elapsed == 0 {
		elapsed = 7
	}
	dates := make([]string, elapsed)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// PreviousWeekDates returns the last full Monday-to-Sunday week before the week
// containing today.
func PreviousWeekDates(today time.Time) []string {
	monday := weekMonday(today).AddDate(0, 0, -7)
	dates := make([]string, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// PreviousMonthDates returns every date of the calendar month before the one
// containing today, plus a French "month year" label for it.
func PreviousMonthDates(today time.Time) ([]string, string) {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
	return monthDates(first), fmt.Sprintf("%s %d", frenchMonths[first.Month()-1], first.Year())
}

// TwoMonthsAgoDates returns every date of the month two months before the one
// containing today, the baseline for the month-over-month trend.
func TwoMonthsAgoDates(today time.Time) []string {
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -2, 0)
	return monthDates(first)
}

func monthDates(first time.Time) []string {
	n := first.AddDate(0, 1, -1).Day()
	dates := make([]string, n)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, i).Format(DateLayout)
	}
	return dates
}

// RangeDates expands an inclusive [start, end] pair of ISO dates into every
// date in between. An end before start yields an empty slice.
func RangeDates(start, end string) ([]string, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", start, err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", end, err)
	}
	var dates []string
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates, nil
}

// ElapsedInRange counts the days of [start, end] that are at or before today.
// Future placeholder days never count toward completion totals.
func ElapsedInRange(start, end string, today time.Time) (int, error) {
	dates, err := RangeDates(start, end)
	if err != nil {
		return 0, err
	}
	cutoff := Midnight(today).Format(DateLayout)
	n := 0
	for _, d := range dates {
		if d <= cutoff {
			n++
		}
	}
	return n, nil
}
