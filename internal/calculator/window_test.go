package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroTables/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlySeries(t *testing.T, from time.Time, values ...float64) model.TimeSeries {
	t.Helper()
	obs := make([]model.Observation, len(values))
	for i, v := range values {
		obs[i] = model.Observation{Time: from.AddDate(0, i, 0), Value: v}
	}
	s, err := model.NewTimeSeries("TEST", obs)
	require.NoError(t, err)
	return s
}

func TestWindowStart(t *testing.T) {
	tests := []struct {
		name   string
		anchor time.Time
		years  int
		want   time.Time
	}{
		{"plain", date(2025, 6, 1), 3, date(2022, 6, 1)},
		{"leap day clamps", date(2024, 2, 29), 1, date(2023, 2, 28)},
		{"leap to leap", date(2024, 2, 29), 4, date(2020, 2, 29)},
		{"month end", date(2025, 3, 31), 2, date(2023, 3, 31)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WindowStart(tt.anchor, tt.years))
		})
	}
}

func TestFilterWindow_TrailingYears(t *testing.T) {
	// 2021-01 .. 2025-06, 54 months
	values := make([]float64, 54)
	for i := range values {
		values[i] = float64(100 + i)
	}
	s := monthlySeries(t, date(2021, 1, 1), values...)

	got, err := FilterWindow(s, 3)
	require.NoError(t, err)

	latest, _ := s.Latest()
	start := WindowStart(latest.Time, 3)
	require.NotEmpty(t, got.Observations)
	assert.Equal(t, date(2022, 6, 1), got.Observations[0].Time)
	assert.Equal(t, latest, got.Observations[len(got.Observations)-1])
	assert.Len(t, got.Observations, 37)
	for _, o := range got.Observations {
		assert.False(t, o.Time.Before(start), "observation %s before window start", o.Time)
	}
}

func TestFilterWindow_ShortSeriesUnchanged(t *testing.T) {
	s := monthlySeries(t, date(2024, 1, 1), 1, 2, 3)
	got, err := FilterWindow(s, 3)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestFilterWindow_IrregularGaps(t *testing.T) {
	obs := []model.Observation{
		{Time: date(2019, 5, 1), Value: 1},
		{Time: date(2021, 12, 31), Value: 2},
		{Time: date(2022, 1, 1), Value: 3},
		{Time: date(2025, 1, 1), Value: 4},
	}
	s, err := model.NewTimeSeries("GAPS", obs)
	require.NoError(t, err)

	got, err := FilterWindow(s, 3)
	require.NoError(t, err)
	require.Len(t, got.Observations, 2)
	assert.Equal(t, date(2022, 1, 1), got.Observations[0].Time)
	assert.Len(t, s.Observations, 4, "input must not be mutated")
}

func TestFilterWindow_Errors(t *testing.T) {
	_, err := FilterWindow(model.TimeSeries{SeriesID: "EMPTY"}, 3)
	assert.ErrorIs(t, err, model.ErrEmptySeries)

	s := monthlySeries(t, date(2024, 1, 1), 1)
	_, err = FilterWindow(s, 0)
	assert.Error(t, err)
}
