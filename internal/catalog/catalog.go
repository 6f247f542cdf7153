// Package catalog defines the fixed set of indicator tables built by a batch.
package catalog

import "MacroTables/internal/model"

// Indicator ids, also used as keys for per-indicator config overrides.
const (
	InflationID    = "inflation"
	GDPID          = "gdp"
	InterestRateID = "interest_rate"
	UnemploymentID = "unemployment"
)

// DefaultWindowYears is the trailing window used by every indicator.
const DefaultWindowYears = 3

// Inflation is the monthly CPI table: monthly change and year-to-date change.
func Inflation() model.IndicatorSpec {
	return model.IndicatorSpec{
		ID:            InflationID,
		Name:          "US inflation (CPI)",
		SeriesID:      "CPIAUCSL",
		RawColumnName: "CPI",
		LabelColumn:   "YearMonth",
		Cadence:       model.Monthly,
		WindowYears:   DefaultWindowYears,
		Metrics: []model.MetricColumn{
			{Name: "MonthlyInflationPct", Kind: model.PercentChange()},
			{Name: "YearToDateInflationPct", Kind: model.CumulativeAnnualSum(model.PercentChange())},
		},
		OutputColumnOrder: []string{"YearMonth", "MonthlyInflationPct", "YearToDateInflationPct"},
		Destination:       "inflation_us.xlsx",
	}
}

// GDP is the quarterly GDP table: level and quarter-over-quarter growth.
func GDP() model.IndicatorSpec {
	return model.IndicatorSpec{
		ID:            GDPID,
		Name:          "US gross domestic product",
		SeriesID:      "GDP",
		RawColumnName: "GDP",
		LabelColumn:   "Quarter",
		Cadence:       model.Quarterly,
		WindowYears:   DefaultWindowYears,
		Metrics: []model.MetricColumn{
			{Name: "QuarterlyGrowthPct", Kind: model.PercentChange()},
			{Name: "GDP", Kind: model.RawPassthrough()},
		},
		OutputColumnOrder: []string{"Quarter", "GDP", "QuarterlyGrowthPct"},
		Destination:       "gdp_us.xlsx",
	}
}

// InterestRate is the monthly effective federal funds rate.
func InterestRate() model.IndicatorSpec {
	return model.IndicatorSpec{
		ID:            InterestRateID,
		Name:          "US federal funds rate",
		SeriesID:      "FEDFUNDS",
		RawColumnName: "FEDFUNDS",
		LabelColumn:   "YearMonth",
		Cadence:       model.Monthly,
		WindowYears:   DefaultWindowYears,
		Metrics: []model.MetricColumn{
			{Name: "FedFundsRate", Kind: model.RawPassthrough()},
		},
		OutputColumnOrder: []string{"YearMonth", "FedFundsRate"},
		Destination:       "interest_rate_us.xlsx",
	}
}

// Unemployment is the monthly civilian unemployment rate.
func Unemployment() model.IndicatorSpec {
	return model.IndicatorSpec{
		ID:            UnemploymentID,
		Name:          "US unemployment rate",
		SeriesID:      "UNRATE",
		RawColumnName: "UNRATE",
		LabelColumn:   "YearMonth",
		Cadence:       model.Monthly,
		WindowYears:   DefaultWindowYears,
		Metrics: []model.MetricColumn{
			{Name: "UnemploymentRate", Kind: model.RawPassthrough()},
		},
		OutputColumnOrder: []string{"YearMonth", "UnemploymentRate"},
		Destination:       "unemployment_us.xlsx",
	}
}

// Override replaces the deployment-specific fields of an indicator.
// Zero values keep the built-in setting.
type Override struct {
	SeriesID    string
	Destination string
	WindowYears int
}

// All returns the four indicators in batch order: inflation, GDP, interest
// rate, unemployment. overrides is keyed by indicator id and may be nil.
func All(overrides map[string]Override) []model.IndicatorSpec {
	specs := []model.IndicatorSpec{Inflation(), GDP(), InterestRate(), Unemployment()}
	for i := range specs {
		o, ok := overrides[specs[i].ID]
		if !ok {
			continue
		}
		if o.SeriesID != "" {
			specs[i].SeriesID = o.SeriesID
		}
		if o.Destination != "" {
			specs[i].Destination = o.Destination
		}
		if o.WindowYears > 0 {
			specs[i].WindowYears = o.WindowYears
		}
	}
	return specs
}
