package collector

import (
	"context"
	"fmt"
	"sync"

	"MacroTables/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Series map[string]model.TimeSeries
	Errors map[string]error

	mu    sync.Mutex
	calls []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) Fetch(_ context.Context, seriesID string) (model.TimeSeries, error) {
	m.mu.Lock()
	m.calls = append(m.calls, seriesID)
	m.mu.Unlock()

	if err, ok := m.Errors[seriesID]; ok {
		return model.TimeSeries{}, err
	}
	s, ok := m.Series[seriesID]
	if !ok {
		return model.TimeSeries{}, fmt.Errorf("mock: unknown series %s: %w", seriesID, model.ErrSourceUnavailable)
	}
	return s, nil
}

// Calls returns the series ids requested so far, in call order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}
