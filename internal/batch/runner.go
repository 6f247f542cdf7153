// Package batch runs every indicator pipeline of the catalog: fetch, derive,
// preview, export and record, isolating failures per indicator.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"MacroTables/internal/collector"
	"MacroTables/internal/exporter"
	"MacroTables/internal/model"
	"MacroTables/internal/pipeline"
	"MacroTables/internal/recorder"
)

// Options is the immutable batch configuration built once at startup.
type Options struct {
	APIKey       string
	FetchTimeout time.Duration // per fetch; zero means no extra bound
	Concurrent   bool
	PreviewRows  int
}

// Result is the outcome of one indicator in a batch.
type Result struct {
	IndicatorID string
	SeriesID    string
	Outcome     recorder.Outcome
	OutputPath  string
	Table       *model.DerivedTable
	Err         error
}

// Report lists one Result per indicator in catalog order.
type Report struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Results   []Result
}

// Failed returns the results that did not export a table.
func (r *Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Runner executes the indicator catalog against its collaborators.
type Runner struct {
	Specs    []model.IndicatorSpec
	Fetcher  collector.Fetcher
	Exporter exporter.Exporter
	Recorder recorder.Recorder
	Options  Options
	Out      io.Writer // batch log destination; defaults to log.Writer()
}

// NewRunner creates a Runner. A nil recorder disables recording.
func NewRunner(specs []model.IndicatorSpec, f collector.Fetcher, x exporter.Exporter, rec recorder.Recorder, opts Options) *Runner {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Runner{Specs: specs, Fetcher: f, Exporter: x, Recorder: rec, Options: opts}
}

// Run checks the credential and then processes every indicator. It only
// returns an error for a missing credential (model.ErrConfig), in which case
// nothing is fetched or exported. Per-indicator failures are reported in the
// returned Report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if strings.TrimSpace(r.Options.APIKey) == "" {
		return nil, fmt.Errorf("%w: FRED API key not found; set FRED_API_KEY in the environment or .env file", model.ErrConfig)
	}

	report := &Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]Result, len(r.Specs)),
	}
	out := r.Out
	if out == nil {
		out = log.Writer()
	}
	logger := log.New(out, "", log.LstdFlags)
	logger.Printf("[INFO] batch %s started: %d indicators", report.RunID, len(r.Specs))

	if r.Options.Concurrent {
		// Each indicator logs into its own buffer; buffers are flushed in
		// catalog order once every indicator is done.
		bufs := make([]*bytes.Buffer, len(r.Specs))
		var g errgroup.Group
		for i := range r.Specs {
			bufs[i] = &bytes.Buffer{}
			g.Go(func() error {
				report.Results[i] = r.runIndicator(ctx, report.RunID, r.Specs[i], bufs[i])
				return nil
			})
		}
		_ = g.Wait()
		for _, b := range bufs {
			_, _ = io.Copy(out, b)
		}
	} else {
		for i := range r.Specs {
			report.Results[i] = r.runIndicator(ctx, report.RunID, r.Specs[i], out)
		}
	}

	report.Duration = time.Since(report.StartedAt)
	failed := len(report.Failed())
	logger.Printf("[INFO] batch %s finished in %v: %d exported, %d failed",
		report.RunID, report.Duration.Round(time.Millisecond), len(report.Results)-failed, failed)
	return report, nil
}

func (r *Runner) runIndicator(ctx context.Context, runID string, spec model.IndicatorSpec, w io.Writer) Result {
	logger := log.New(w, "", log.LstdFlags)
	started := time.Now()
	res := Result{IndicatorID: spec.ID, SeriesID: spec.SeriesID}

	logger.Printf("[INFO] %s: fetching series %s from %s", spec.ID, spec.SeriesID, r.Fetcher.Name())
	series, err := r.fetch(ctx, spec.SeriesID)
	if err != nil {
		res.Outcome = recorder.OutcomeFetchFailed
		res.Err = &model.IndicatorError{IndicatorID: spec.ID, Stage: model.StageFetch, Err: err}
		logger.Printf("[ERROR] %v", res.Err)
		r.record(logger, runID, started, res)
		return res
	}

	table, err := pipeline.Run(spec, series)
	if err != nil {
		res.Outcome = recorder.OutcomePipelineError
		if k := model.Kind(err); k == model.ErrDataUnavailable || k == model.ErrEmptySeries {
			res.Outcome = recorder.OutcomeNoData
		}
		res.Err = err
		logger.Printf("[ERROR] %v, skipping", err)
		r.record(logger, runID, started, res)
		return res
	}
	res.Table = table

	n := r.Options.PreviewRows
	if n <= 0 {
		n = exporter.PreviewRows
	}
	logger.Printf("[INFO] %s: %d rows, last %d:\n%s", spec.ID, len(table.Rows), n, exporter.FormatPreview(table, n))

	path, err := r.Exporter.Export(table, spec.Destination)
	if err != nil {
		if !errors.Is(err, model.ErrExport) {
			err = fmt.Errorf("%w: %v", model.ErrExport, err)
		}
		res.Outcome = recorder.OutcomeExportError
		res.Err = &model.IndicatorError{IndicatorID: spec.ID, Stage: model.StageExport, Err: err}
		logger.Printf("[ERROR] %v", res.Err)
		r.record(logger, runID, started, res)
		return res
	}
	res.Outcome = recorder.OutcomeExported
	res.OutputPath = path
	logger.Printf("[INFO] %s: saved %s", spec.ID, path)
	r.record(logger, runID, started, res)
	return res
}

// fetch bounds the fetch with the configured timeout and normalises any
// collaborator error to model.ErrSourceUnavailable.
func (r *Runner) fetch(ctx context.Context, seriesID string) (model.TimeSeries, error) {
	if r.Options.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Options.FetchTimeout)
		defer cancel()
	}
	series, err := r.Fetcher.Fetch(ctx, seriesID)
	if err != nil && model.Kind(err) == nil {
		err = fmt.Errorf("%w: %v", model.ErrSourceUnavailable, err)
	}
	return series, err
}

func (r *Runner) record(logger *log.Logger, runID string, started time.Time, res Result) {
	run := &recorder.IndicatorRun{
		RunID:       runID,
		IndicatorID: res.IndicatorID,
		SeriesID:    res.SeriesID,
		StartedAt:   started,
		Duration:    time.Since(started),
		Outcome:     res.Outcome,
		OutputPath:  res.OutputPath,
		Table:       res.Table,
	}
	if res.Err != nil {
		if k := model.Kind(res.Err); k != nil {
			run.ErrorKind = k.Error()
		}
		run.ErrorMsg = res.Err.Error()
	}
	if err := r.Recorder.RecordIndicatorRun(run); err != nil {
		logger.Printf("[WARN] %s: record run: %v", res.IndicatorID, err)
	}
}
