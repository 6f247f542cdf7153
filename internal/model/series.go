package model

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Observation is a single dated value of a raw indicator series.
type Observation struct {
	Time  time.Time
	Value float64
}

// TimeSeries holds raw observations in strictly increasing time order.
// It is never modified after construction.
type TimeSeries struct {
	SeriesID     string
	Observations []Observation
	FetchedAt    time.Time
}

// NewTimeSeries sorts obs chronologically and rejects duplicate timestamps
// and values that are NaN or infinite.
func NewTimeSeries(seriesID string, obs []Observation) (TimeSeries, error) {
	for _, o := range obs {
		if math.IsNaN(o.Value) || math.IsInf(o.Value, 0) {
			return TimeSeries{}, fmt.Errorf("series %s: non-finite value %v on %s",
				seriesID, o.Value, o.Time.Format("2006-01-02"))
		}
	}
	sorted := make([]Observation, len(obs))
	copy(sorted, obs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Time.Equal(sorted[i-1].Time) {
			return TimeSeries{}, fmt.Errorf("series %s: duplicate timestamp %s",
				seriesID, sorted[i].Time.Format("2006-01-02"))
		}
	}
	return TimeSeries{SeriesID: seriesID, Observations: sorted, FetchedAt: time.Now()}, nil
}

// Len returns the number of observations.
func (s TimeSeries) Len() int { return len(s.Observations) }

// Latest returns the most recent observation. ok is false for an empty series.
func (s TimeSeries) Latest() (obs Observation, ok bool) {
	if len(s.Observations) == 0 {
		return Observation{}, false
	}
	return s.Observations[len(s.Observations)-1], true
}
