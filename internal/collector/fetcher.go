package collector

import (
	"context"

	"MacroTables/internal/model"
)

// Fetcher retrieves a raw indicator series by its provider identifier.
// Failures wrap model.ErrSourceUnavailable.
type Fetcher interface {
	Fetch(ctx context.Context, seriesID string) (model.TimeSeries, error)
	Name() string
}
