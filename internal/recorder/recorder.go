package recorder

import (
	"time"

	"MacroTables/internal/model"
)

// Outcome is the final status of one indicator in a batch run.
type Outcome string

const (
	OutcomeExported      Outcome = "EXPORTED"
	OutcomeFetchFailed   Outcome = "FETCH_FAILED"
	OutcomeNoData        Outcome = "NO_DATA"
	OutcomePipelineError Outcome = "PIPELINE_FAILED"
	OutcomeExportError   Outcome = "EXPORT_FAILED"
)

// IndicatorRun holds everything recorded for one indicator in one batch.
type IndicatorRun struct {
	RunID       string
	IndicatorID string
	SeriesID    string
	StartedAt   time.Time
	Duration    time.Duration
	Outcome     Outcome
	ErrorKind   string
	ErrorMsg    string
	OutputPath  string
	Table       *model.DerivedTable // nil unless the pipeline produced a table
}

// Recorder persists batch history for later audit.
type Recorder interface {
	RecordIndicatorRun(run *IndicatorRun) error
	Close() error
}
