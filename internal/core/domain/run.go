package domain

import "time"

// Run is the record of one optimize invocation over a directory
type Run struct {
	ID         string          `json:"id"`
	Root       string          `json:"root"`
	DryRun     bool            `json:"dry_run"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Results    []ProcessResult `json:"results"`
	Findings   []Finding       `json:"findings"`
}

// Count returns how many results have the given status
func (r *Run) Count(status Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// HasFailures reports whether any file failed
func (r *Run) HasFailures() bool {
	return r.Count(StatusFailed) > 0
}

// Bytes returns the total size of the processed files before and after
func (r *Run) Bytes() (original, optimized int64) {
	for _, res := range r.Results {
		if res.Status == StatusFailed || res.Status == StatusSkipped {
			continue
		}
		original += res.OriginalSize
		optimized += res.OptimizedSize
	}
	return original, optimized
}

// Duration returns how long the run took
func (r *Run) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
