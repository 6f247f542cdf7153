package calculator

import (
	"fmt"
	"math"

	"github.com/guregu/null/v6"
	"github.com/shopspring/decimal"

	"MacroTables/internal/model"
)

// Round2 rounds v to two decimals, half away from zero. NaN and ±Inf are
// returned unchanged.
func Round2(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ComputeMetric builds the output column for kind over the filtered rows.
// values and labels are aligned row by row. Every valid cell is rounded once;
// a cell that overflows to a non-finite number is undefined.
func ComputeMetric(kind model.MetricKind, values []float64, labels []string) ([]null.Float, error) {
	if len(values) != len(labels) {
		return nil, fmt.Errorf("metric %s: %d values but %d labels", kind, len(values), len(labels))
	}
	raw, err := compute(kind, values, labels)
	if err != nil {
		return nil, err
	}
	out := make([]null.Float, len(raw))
	for i, c := range raw {
		if c.Valid && finite(c.Float64) {
			out[i] = null.FloatFrom(Round2(c.Float64))
		}
	}
	return out, nil
}

// compute returns unrounded cells so nested metrics accumulate exact values.
func compute(kind model.MetricKind, values []float64, labels []string) ([]null.Float, error) {
	switch kind.Op {
	case model.OpPercentChange:
		return percentChange(values), nil
	case model.OpRawPassthrough:
		out := make([]null.Float, len(values))
		for i, v := range values {
			out[i] = null.FloatFrom(v)
		}
		return out, nil
	case model.OpCumulativeAnnualSum:
		if kind.Of == nil {
			return nil, fmt.Errorf("metric %s: missing inner metric", kind.Op)
		}
		inner, err := compute(*kind.Of, values, labels)
		if err != nil {
			return nil, err
		}
		return cumulativeAnnualSum(inner, labels)
	default:
		return nil, fmt.Errorf("unknown metric op %q", kind.Op)
	}
}

// percentChange leaves row 0, any row after a zero value and any change too
// large to represent undefined.
func percentChange(values []float64) []null.Float {
	out := make([]null.Float, len(values))
	for i := 1; i < len(values); i++ {
		prev := values[i-1]
		if prev == 0 {
			continue
		}
		if pct := (values[i] - prev) / prev * 100; finite(pct) {
			out[i] = null.FloatFrom(pct)
		}
	}
	return out
}

// cumulativeAnnualSum restarts the running total on the first row of each
// label year. Undefined inputs add zero and stay undefined in the output.
func cumulativeAnnualSum(inner []null.Float, labels []string) ([]null.Float, error) {
	out := make([]null.Float, len(inner))
	var total float64
	year := 0
	for i, c := range inner {
		y, err := LabelYear(labels[i])
		if err != nil {
			return nil, err
		}
		contribution := 0.0
		if c.Valid && finite(c.Float64) {
			contribution = c.Float64
		}
		if i == 0 || y != year {
			total = contribution
			year = y
		} else {
			total += contribution
		}
		if c.Valid {
			out[i] = null.FloatFrom(total)
		}
	}
	return out, nil
}
