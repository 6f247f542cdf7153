package model

import (
	"errors"
	"fmt"
	"strings"
)

// Cadence is the natural reporting frequency of an indicator.
type Cadence int

const (
	Monthly Cadence = iota
	Quarterly
)

func (c Cadence) String() string {
	switch c {
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	default:
		return fmt.Sprintf("cadence(%d)", int(c))
	}
}

// ParseCadence accepts "monthly" or "quarterly" (case-insensitive).
func ParseCadence(s string) (Cadence, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return Monthly, nil
	case "quarterly":
		return Quarterly, nil
	default:
		return 0, fmt.Errorf("unknown cadence %q", s)
	}
}

// MetricOp identifies the calculation behind a derived column.
type MetricOp string

const (
	OpPercentChange       MetricOp = "PERCENT_CHANGE"
	OpCumulativeAnnualSum MetricOp = "CUMULATIVE_ANNUAL_SUM"
	OpRawPassthrough      MetricOp = "RAW_PASSTHROUGH"
)

// MetricKind describes one derived metric. Of is set only for
// OpCumulativeAnnualSum and names the metric being accumulated.
type MetricKind struct {
	Op MetricOp
	Of *MetricKind
}

// PercentChange is the relative change against the previous row in the window.
func PercentChange() MetricKind { return MetricKind{Op: OpPercentChange} }

// CumulativeAnnualSum accumulates of, restarting every calendar year.
func CumulativeAnnualSum(of MetricKind) MetricKind {
	return MetricKind{Op: OpCumulativeAnnualSum, Of: &of}
}

// RawPassthrough keeps the raw value.
func RawPassthrough() MetricKind { return MetricKind{Op: OpRawPassthrough} }

func (k MetricKind) String() string {
	if k.Op == OpCumulativeAnnualSum && k.Of != nil {
		return fmt.Sprintf("%s(%s)", k.Op, k.Of)
	}
	return string(k.Op)
}

// Validate reports malformed kinds such as an accumulation without a target.
func (k MetricKind) Validate() error {
	switch k.Op {
	case OpPercentChange, OpRawPassthrough:
		if k.Of != nil {
			return fmt.Errorf("metric %s takes no inner metric", k.Op)
		}
		return nil
	case OpCumulativeAnnualSum:
		if k.Of == nil {
			return errors.New("cumulative annual sum needs an inner metric")
		}
		return k.Of.Validate()
	default:
		return fmt.Errorf("unknown metric op %q", k.Op)
	}
}

// MetricColumn binds an output column name to a metric.
type MetricColumn struct {
	Name string
	Kind MetricKind
}

// IndicatorSpec is the static description of one indicator table.
type IndicatorSpec struct {
	ID                string
	Name              string
	SeriesID          string
	RawColumnName     string
	LabelColumn       string
	Cadence           Cadence
	WindowYears       int
	Metrics           []MetricColumn
	OutputColumnOrder []string
	Destination       string
}

// Validate checks the spec is internally consistent: the output order starts
// with the label column and every other entry is a declared metric column.
func (s IndicatorSpec) Validate() error {
	if s.ID == "" {
		return errors.New("indicator id is required")
	}
	if s.WindowYears <= 0 {
		return fmt.Errorf("indicator %s: window years must be positive", s.ID)
	}
	if len(s.OutputColumnOrder) == 0 || s.OutputColumnOrder[0] != s.LabelColumn {
		return fmt.Errorf("indicator %s: output order must start with label column %q", s.ID, s.LabelColumn)
	}
	declared := make(map[string]bool, len(s.Metrics))
	for _, m := range s.Metrics {
		if declared[m.Name] || m.Name == s.LabelColumn {
			return fmt.Errorf("indicator %s: duplicate column %q", s.ID, m.Name)
		}
		if err := m.Kind.Validate(); err != nil {
			return fmt.Errorf("indicator %s: column %s: %w", s.ID, m.Name, err)
		}
		declared[m.Name] = true
	}
	seen := make(map[string]bool, len(s.OutputColumnOrder))
	for _, c := range s.OutputColumnOrder[1:] {
		if !declared[c] {
			return fmt.Errorf("indicator %s: output column %q is not a declared metric", s.ID, c)
		}
		if seen[c] {
			return fmt.Errorf("indicator %s: output column %q listed twice", s.ID, c)
		}
		seen[c] = true
	}
	return nil
}
