// Package pipeline turns one raw indicator series into its derived table.
package pipeline

import (
	"fmt"

	"github.com/guregu/null/v6"

	"MacroTables/internal/calculator"
	"MacroTables/internal/model"
)

// Run windows series, labels each row and computes every metric declared by
// spec, returning the table in spec.OutputColumnOrder. series is not modified.
func Run(spec model.IndicatorSpec, series model.TimeSeries) (*model.DerivedTable, error) {
	if series.Len() == 0 {
		return nil, &model.IndicatorError{
			IndicatorID: spec.ID,
			Stage:       model.StagePipeline,
			Err:         fmt.Errorf("series %s has no observations: %w", spec.SeriesID, model.ErrDataUnavailable),
		}
	}
	if err := spec.Validate(); err != nil {
		return nil, &model.IndicatorError{IndicatorID: spec.ID, Stage: model.StagePipeline, Err: err}
	}

	window, err := calculator.FilterWindow(series, spec.WindowYears)
	if err != nil {
		return nil, &model.IndicatorError{IndicatorID: spec.ID, Stage: model.StagePipeline, Err: err}
	}

	labels := calculator.Labels(window, spec.Cadence)
	values := make([]float64, window.Len())
	for i, o := range window.Observations {
		values[i] = o.Value
	}

	columns := make(map[string][]null.Float, len(spec.Metrics))
	for _, m := range spec.Metrics {
		col, err := calculator.ComputeMetric(m.Kind, values, labels)
		if err != nil {
			return nil, &model.IndicatorError{
				IndicatorID: spec.ID,
				Stage:       model.StagePipeline,
				Err:         fmt.Errorf("column %s: %w", m.Name, err),
			}
		}
		columns[m.Name] = col
	}

	return assemble(spec, labels, columns), nil
}

func assemble(spec model.IndicatorSpec, labels []string, columns map[string][]null.Float) *model.DerivedTable {
	order := make([]string, len(spec.OutputColumnOrder))
	copy(order, spec.OutputColumnOrder)

	table := &model.DerivedTable{
		IndicatorID: spec.ID,
		Columns:     order,
		Rows:        make([]model.Row, len(labels)),
	}
	for i, label := range labels {
		row := model.Row{Label: label, Values: make([]null.Float, 0, len(order)-1)}
		for _, name := range order[1:] {
			row.Values = append(row.Values, columns[name][i])
		}
		table.Rows[i] = row
	}
	return table
}
