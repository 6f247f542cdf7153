package calculator

import (
	"fmt"
	"strconv"
	"time"

	"MacroTables/internal/model"
)

// PeriodLabel formats t as "YYYY-MM" (monthly) or "YYYY-Qn" (quarterly),
// using the calendar date in t's own location.
func PeriodLabel(t time.Time, cadence model.Cadence) string {
	switch cadence {
	case model.Quarterly:
		q := 1 + (int(t.Month())-1)/3
		return fmt.Sprintf("%04d-Q%d", t.Year(), q)
	default:
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}
}

// LabelYear parses the year out of a label produced by PeriodLabel.
func LabelYear(label string) (int, error) {
	if len(label) < 4 {
		return 0, fmt.Errorf("period label %q too short", label)
	}
	y, err := strconv.Atoi(label[:4])
	if err != nil {
		return 0, fmt.Errorf("period label %q: %w", label, err)
	}
	return y, nil
}

// Labels labels every observation of series.
func Labels(series model.TimeSeries, cadence model.Cadence) []string {
	labels := make([]string, len(series.Observations))
	for i, o := range series.Observations {
		labels[i] = PeriodLabel(o.Time, cadence)
	}
	return labels
}
