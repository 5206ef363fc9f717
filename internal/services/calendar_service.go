package services

import (
	"context"
	"fmt"
	"time"

	"habitude/internal/analytics"
)

type CalendarService struct {
	habits HabitStore
}

func NewCalendarService(habits HabitStore) *CalendarService {
	return &CalendarService{habits: habits}
}

// Activity builds the dense date→habit→bool matrix over [start, end]. A user
// with no habits gets an empty object, not an error.
func (s *CalendarService) Activity(ctx context.Context, userID int, start, end string) (analytics.ActivityData, error) {
	if _, err := analytics.RangeDates(start, end); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	ids, err := s.habits.IDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return analytics.ActivityData{}, nil
	}
	entries, err := s.habits.EntriesInRange(ctx, ids, start, end)
	if err != nil {
		return nil, err
	}
	data, err := analytics.ActivityMatrix(ids, start, end, entries)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return data, nil
}

// RangeStats summarizes [start, end], counting only elapsed days.
func (s *CalendarService) RangeStats(ctx context.Context, userID int, start, end string, today time.Time) (analytics.CalendarStats, error) {
	if _, err := analytics.RangeDates(start, end); err != nil {
		return analytics.CalendarStats{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	habits, err := s.habits.ByUser(ctx, userID)
	if err != nil {
		return analytics.CalendarStats{}, err
	}
	ids, infos := habitRefs(habits)
	if len(ids) == 0 {
		return analytics.CalendarStats{HabitStats: map[int]analytics.HabitDayStats{}}, nil
	}
	entries, err := s.habits.EntriesInRange(ctx, ids, start, end)
	if err != nil {
		return analytics.CalendarStats{}, err
	}
	stats, err := analytics.RangeStats(infos, entries, start, end, today)
	if err != nil {
		return analytics.CalendarStats{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return stats, nil
}
