package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/moby/sys/atomicwriter"

	"github.com/kamal-hamza/webopt/internal/core/domain"
)

// Summary holds the run totals
type Summary struct {
	Files          int     `json:"files"`
	Optimized      int     `json:"optimized"`
	Unchanged      int     `json:"unchanged"`
	Skipped        int     `json:"skipped"`
	Failed         int     `json:"failed"`
	OriginalBytes  int64   `json:"original_bytes"`
	OptimizedBytes int64   `json:"optimized_bytes"`
	ReductionPct   float64 `json:"reduction_pct"`
}

// Entry is a per-file result with its error flattened to text
type Entry struct {
	domain.ProcessResult
	Error string `json:"error,omitempty"`
}

// Document is the JSON run report
type Document struct {
	ID         string           `json:"id"`
	Root       string           `json:"root"`
	DryRun     bool             `json:"dry_run"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Summary    Summary          `json:"summary"`
	Results    []Entry          `json:"results"`
	Findings   []domain.Finding `json:"findings"`
}

// NewDocument builds the report for a run
func NewDocument(run *domain.Run) Document {
	original, optimized := run.Bytes()
	doc := Document{
		ID:         run.ID,
		Root:       run.Root,
		DryRun:     run.DryRun,
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		Summary: Summary{
			Files:          len(run.Results),
			Optimized:      run.Count(domain.StatusOptimized) + run.Count(domain.StatusDryRun),
			Unchanged:      run.Count(domain.StatusUnchanged),
			Skipped:        run.Count(domain.StatusSkipped),
			Failed:         run.Count(domain.StatusFailed),
			OriginalBytes:  original,
			OptimizedBytes: optimized,
			ReductionPct:   domain.Reduction(original, optimized),
		},
		Results:  make([]Entry, 0, len(run.Results)),
		Findings: run.Findings,
	}
	if doc.Findings == nil {
		doc.Findings = []domain.Finding{}
	}

	for _, r := range run.Results {
		entry := Entry{ProcessResult: r}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		doc.Results = append(doc.Results, entry)
	}
	return doc
}

// WriteJSON encodes the run report as indented JSON
func WriteJSON(w io.Writer, run *domain.Run) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(run)); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// SaveJSON writes the JSON run report to path
func SaveJSON(path string, run *domain.Run) error {
	return save(path, func(w io.Writer) error { return WriteJSON(w, run) })
}

// save writes through an atomic writer so a failed render leaves no
// half-written report behind
func save(path string, render func(io.Writer) error) error {
	w, err := atomicwriter.New(path, 0644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
