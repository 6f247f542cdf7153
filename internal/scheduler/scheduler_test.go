package scheduler

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MacroTables/internal/batch"
	"MacroTables/internal/catalog"
	"MacroTables/internal/collector"
	"MacroTables/internal/model"
)

type captureNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (c *captureNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, text)
	return nil
}

type nopExporter struct{}

func (nopExporter) Export(_ *model.DerivedTable, destination string) (string, error) {
	return destination, nil
}

func newRunner(t *testing.T, apiKey string) *batch.Runner {
	t.Helper()
	obs := []model.Observation{
		{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Value: 100},
		{Time: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Value: 102},
	}
	s, err := model.NewTimeSeries("X", obs)
	require.NoError(t, err)
	f := &collector.MockFetcher{Series: map[string]model.TimeSeries{
		"CPIAUCSL": s, "GDP": s, "FEDFUNDS": s,
	}}
	r := batch.NewRunner(catalog.All(nil), f, nopExporter{}, nil, batch.Options{APIKey: apiKey})
	r.Out = &bytes.Buffer{}
	return r
}

func TestRunNow_SendsSummary(t *testing.T) {
	n := &captureNotifier{}
	s := NewScheduler(context.Background(), newRunner(t, "k"), n)

	report, err := s.RunNow()
	require.NoError(t, err)
	assert.Len(t, report.Failed(), 1)

	require.Len(t, n.msgs, 1)
	assert.True(t, strings.Contains(n.msgs[0], "unemployment"))
	assert.Contains(t, n.msgs[0], "3/4")
}

func TestRunNow_MissingCredential(t *testing.T) {
	n := &captureNotifier{}
	s := NewScheduler(context.Background(), newRunner(t, ""), n)

	_, err := s.RunNow()
	assert.ErrorIs(t, err, model.ErrConfig)
	assert.Empty(t, n.msgs)

	s.batchTask()
	require.Len(t, n.msgs, 1)
	assert.Contains(t, n.msgs[0], "batch aborted")
}

func TestRegister(t *testing.T) {
	s := NewScheduler(context.Background(), newRunner(t, "k"), nil)
	assert.NoError(t, s.Register("0 0 8 * * *"))
	assert.Error(t, s.Register("not a cron"))
	assert.Len(t, s.Cron.Entries(), 1)
}
