package reconciler

import (
	"encoding/json"
	"io"
	"time"
)

// Report is the machine-readable reconciliation report handed to curators
type Report struct {
	RunID       string      `json:"run_id"`
	GeneratedAt time.Time   `json:"generated_at"`
	Matched     int         `json:"matched"`
	Curated     int         `json:"curated"`
	Unmatched   []Unmatched `json:"unmatched"`
}

// NewReport summarizes a result
func NewReport(result *Result, runID string, now time.Time) *Report {
	report := &Report{
		RunID:       runID,
		GeneratedAt: now,
		Unmatched:   []Unmatched{},
	}
	if result == nil {
		return report
	}

	for _, p := range result.Pairs {
		report.Matched++
		if p.Curated {
			report.Curated++
		}
	}
	report.Unmatched = append(report.Unmatched, result.Unmatched...)
	return report
}

// WriteJSON writes the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
