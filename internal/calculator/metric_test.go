package calculator

import (
	"math"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroTables/internal/model"
)

func floats(vs ...float64) []null.Float {
	out := make([]null.Float, len(vs))
	for i, v := range vs {
		out[i] = null.FloatFrom(v)
	}
	return out
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{2.0000000000000018, 2},
		{-0.029411764705882353, -0.03},
		{1.9705882352941178, 1.97},
		{0.125, 0.13},
		{-0.125, -0.13},
		{308.4171, 308.42},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round2(tt.in), "Round2(%v)", tt.in)
	}
}

func TestRound2_NonFinite(t *testing.T) {
	assert.True(t, math.IsInf(Round2(math.Inf(1)), 1))
	assert.True(t, math.IsInf(Round2(math.Inf(-1)), -1))
	assert.True(t, math.IsNaN(Round2(math.NaN())))
}

func TestComputeMetric_PercentChangeOverflowIsUndefined(t *testing.T) {
	values := []float64{1e-300, 1e10, 2e10}
	labels := []string{"2024-01", "2024-02", "2024-03"}

	pct, err := ComputeMetric(model.PercentChange(), values, labels)
	require.NoError(t, err)
	assert.False(t, pct[1].Valid)
	assert.Equal(t, null.FloatFrom(100), pct[2])

	cum, err := ComputeMetric(model.CumulativeAnnualSum(model.PercentChange()), values, labels)
	require.NoError(t, err)
	assert.False(t, cum[1].Valid)
	assert.Equal(t, null.FloatFrom(100), cum[2])
}

func TestComputeMetric_CumulativeOfHugeValuesIsUndefined(t *testing.T) {
	values := []float64{math.MaxFloat64, math.MaxFloat64}
	labels := []string{"2024-Q1", "2024-Q2"}

	got, err := ComputeMetric(model.CumulativeAnnualSum(model.RawPassthrough()), values, labels)
	require.NoError(t, err)
	assert.True(t, got[0].Valid)
	assert.False(t, got[1].Valid, "sum overflows to +Inf")
}

func TestComputeMetric_PercentChange(t *testing.T) {
	values := []float64{100, 102, 101.97, 0, 5}
	labels := []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05"}

	got, err := ComputeMetric(model.PercentChange(), values, labels)
	require.NoError(t, err)
	require.Len(t, got, 5)

	assert.False(t, got[0].Valid, "first row has no predecessor")
	assert.Equal(t, null.FloatFrom(2.00), got[1])
	assert.Equal(t, null.FloatFrom(-0.03), got[2])
	assert.Equal(t, null.FloatFrom(-100.00), got[3])
	assert.False(t, got[4].Valid, "predecessor of zero is undefined")
}

func TestComputeMetric_CumulativeAnnualSumResetsPerYear(t *testing.T) {
	values := []float64{100, 101, 102.01, 103.03, 104.06}
	labels := []string{"2023-11", "2023-12", "2024-01", "2024-02", "2024-03"}

	pct, err := ComputeMetric(model.PercentChange(), values, labels)
	require.NoError(t, err)
	cum, err := ComputeMetric(model.CumulativeAnnualSum(model.PercentChange()), values, labels)
	require.NoError(t, err)

	assert.False(t, cum[0].Valid)
	// Dec 2023 accumulates on top of an undefined (zero) November.
	assert.Equal(t, pct[1], cum[1])
	// Jan 2024 restarts at its own value.
	assert.Equal(t, pct[2], cum[2])
	raw := percentChange(values)
	assert.Equal(t, Round2(raw[2].Float64+raw[3].Float64), cum[3].Float64)
	assert.Equal(t, Round2(raw[2].Float64+raw[3].Float64+raw[4].Float64), cum[4].Float64)
}

func TestComputeMetric_CumulativeCarriesOverMidYearGap(t *testing.T) {
	values := []float64{100, 0, 5, 5.5}
	labels := []string{"2024-01", "2024-02", "2024-03", "2024-04"}

	pct, err := ComputeMetric(model.PercentChange(), values, labels)
	require.NoError(t, err)
	assert.Equal(t, []null.Float{{}, null.FloatFrom(-100), {}, null.FloatFrom(10)}, pct)

	cum, err := ComputeMetric(model.CumulativeAnnualSum(model.PercentChange()), values, labels)
	require.NoError(t, err)
	assert.False(t, cum[2].Valid, "change after a zero value is undefined")
	// April continues from the February total.
	assert.Equal(t, []null.Float{{}, null.FloatFrom(-100), {}, null.FloatFrom(-90)}, cum)
}

func TestComputeMetric_CumulativeOfPassthrough(t *testing.T) {
	values := []float64{1.111, 2.222, 3.333}
	labels := []string{"2024-Q3", "2024-Q4", "2025-Q1"}

	got, err := ComputeMetric(model.CumulativeAnnualSum(model.RawPassthrough()), values, labels)
	require.NoError(t, err)
	assert.Equal(t, floats(1.11, 3.33, 3.33), got)
}

func TestComputeMetric_RawPassthrough(t *testing.T) {
	got, err := ComputeMetric(model.RawPassthrough(), []float64{5.333, 4.005, 27.1}, []string{"2024-01", "2024-02", "2024-03"})
	require.NoError(t, err)
	assert.Equal(t, floats(5.33, 4.01, 27.1), got)
}

func TestComputeMetric_Errors(t *testing.T) {
	_, err := ComputeMetric(model.PercentChange(), []float64{1, 2}, []string{"2024-01"})
	assert.Error(t, err)

	_, err = ComputeMetric(model.MetricKind{Op: "BOGUS"}, []float64{1}, []string{"2024-01"})
	assert.Error(t, err)

	_, err = ComputeMetric(model.MetricKind{Op: model.OpCumulativeAnnualSum}, []float64{1}, []string{"2024-01"})
	assert.Error(t, err)
}

func TestComputeMetric_EmptyInput(t *testing.T) {
	got, err := ComputeMetric(model.CumulativeAnnualSum(model.PercentChange()), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
