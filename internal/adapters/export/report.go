package export

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/rapm/internal/domain/model"
)

// FitSummary describes one rating fit of a run.
type FitSummary struct {
	Label     string  `json:"label"`
	Rows      int     `json:"rows"`
	Players   int     `json:"players"`
	Lambda    float64 `json:"lambda"`
	Intercept float64 `json:"intercept"`
	Error     string  `json:"error,omitempty"`
}

// Report summarizes a batch run.
type Report struct {
	RunID      string          `json:"run_id"`
	Command    string          `json:"command"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Games      int             `json:"games"`
	Processed  int             `json:"processed"`
	Duplicates int             `json:"duplicates"`
	Failures   []model.Failure `json:"failures"`
	Fits       []FitSummary    `json:"fits,omitempty"`
}

// WriteReport writes r as indented JSON.
func WriteReport(w io.Writer, r Report) error {
	if r.Failures == nil {
		r.Failures = []model.Failure{}
	}
	return writeJSON(w, r)
}

// ReadReport reads a report written by WriteReport.
func ReadReport(r io.Reader) (Report, error) {
	var out Report
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return Report{}, fmt.Errorf("decode report: %w", err)
	}
	return out, nil
}

// WriteFailures writes the failure log as a JSON object keyed by game id.
func WriteFailures(w io.Writer, log *model.FailureLog) error {
	byGame := make(map[string]model.Failure, log.Len())
	for _, f := range log.Entries() {
		byGame[f.GameID] = f
	}
	return writeJSON(w, byGame)
}

// ReadFailures reads a failure object written by WriteFailures.
func ReadFailures(r io.Reader) (map[string]model.Failure, error) {
	out := make(map[string]model.Failure)
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode failures: %w", err)
	}
	return out, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
