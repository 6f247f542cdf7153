package calculator

import (
	"fmt"
	"time"

	"MacroTables/internal/model"
)

// WindowStart returns anchor minus years calendar years. A day that does not
// exist in the target month is clamped to the month's last day, so Feb 29
// minus one year is Feb 28 rather than Mar 1.
func WindowStart(anchor time.Time, years int) time.Time {
	y := anchor.Year() - years
	m := anchor.Month()
	d := anchor.Day()
	if last := daysIn(y, m, anchor.Location()); d > last {
		d = last
	}
	return time.Date(y, m, d, anchor.Hour(), anchor.Minute(), anchor.Second(), anchor.Nanosecond(), anchor.Location())
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// FilterWindow keeps the observations dated on or after WindowStart(latest, years).
// The latest observation is always kept; a series shorter than the window is
// returned unchanged.
func FilterWindow(series model.TimeSeries, years int) (model.TimeSeries, error) {
	if years <= 0 {
		return model.TimeSeries{}, fmt.Errorf("window years must be positive, got %d", years)
	}
	latest, ok := series.Latest()
	if !ok {
		return model.TimeSeries{}, fmt.Errorf("filter window %s: %w", series.SeriesID, model.ErrEmptySeries)
	}
	start := WindowStart(latest.Time, years)

	// Observations are ordered, so the window is a suffix.
	first := len(series.Observations) - 1
	for first > 0 && !series.Observations[first-1].Time.Before(start) {
		first--
	}
	if first == 0 {
		return series, nil
	}
	out := series
	out.Observations = series.Observations[first:]
	return out, nil
}
