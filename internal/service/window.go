package service

import (
	"fmt"
	"time"

	"refnet/internal/domain"
)

// windowStart converts a reporting window name into a cutoff time.
// The zero time means lifetime (no cutoff). An empty window is left to the
// caller to default from config before reaching here.
func windowStart(window string, now time.Time) (time.Time, error) {
	switch window {
	case domain.Window6M:
		return now.AddDate(0, -6, 0), nil
	case domain.Window12M:
		return now.AddDate(0, -12, 0), nil
	case domain.WindowLifetime:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown window %q", domain.ErrValidation, window)
	}
}

// monthsOf returns the first day of every calendar month from start through
// end inclusive, so trend series can emit explicit zero entries for quiet
// months instead of gaps.
func monthsOf(start, end time.Time) []time.Time {
	first := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
	var months []time.Time
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

func monthLabel(t time.Time) string {
	return t.UTC().Format("Jan 2006")
}
