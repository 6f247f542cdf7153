package model

import (
	"errors"
	"fmt"
)

// Error kinds. Callers match them with errors.Is.
var (
	ErrConfig            = errors.New("configuration error")
	ErrEmptySeries       = errors.New("empty series")
	ErrDataUnavailable   = errors.New("data unavailable")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrExport            = errors.New("export failed")
)

// Stage names the step of an indicator run where an error happened.
type Stage string

const (
	StageFetch    Stage = "fetch"
	StagePipeline Stage = "pipeline"
	StageExport   Stage = "export"
)

// IndicatorError attaches the indicator and stage to an underlying error.
type IndicatorError struct {
	IndicatorID string
	Stage       Stage
	Err         error
}

func (e *IndicatorError) Error() string {
	return fmt.Sprintf("indicator %s: %s: %v", e.IndicatorID, e.Stage, e.Err)
}

func (e *IndicatorError) Unwrap() error { return e.Err }

// Kind returns the sentinel error kind wrapped by err, or nil if none matches.
func Kind(err error) error {
	for _, k := range []error{ErrConfig, ErrEmptySeries, ErrDataUnavailable, ErrSourceUnavailable, ErrExport} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
