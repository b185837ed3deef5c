package domain

import (
	"errors"
	"fmt"
)

// Status describes what happened to a single file during a pass
type Status string

const (
	StatusOptimized Status = "optimized"
	StatusUnchanged Status = "unchanged"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
	StatusDryRun    Status = "dry-run"
)

// Sentinel errors for the three per-file failure kinds
var (
	ErrRead      = errors.New("read failure")
	ErrTransform = errors.New("transform failure")
	ErrWrite     = errors.New("write failure")
)

// FileError ties a per-file failure to its path and failure kind.
// errors.Is(err, ErrRead) etc. match on Kind.
type FileError struct {
	Kind error
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewReadError wraps err as a ReadFailure for path
func NewReadError(path string, err error) *FileError {
	return &FileError{Kind: ErrRead, Path: path, Err: err}
}

// NewTransformError wraps err as a TransformFailure for path
func NewTransformError(path string, err error) *FileError {
	return &FileError{Kind: ErrTransform, Path: path, Err: err}
}

// NewWriteError wraps err as a WriteFailure for path
func NewWriteError(path string, err error) *FileError {
	return &FileError{Kind: ErrWrite, Path: path, Err: err}
}

// ProcessResult is the outcome of running one file through the pipeline
type ProcessResult struct {
	AssetFile
	Status    Status  `json:"status"`
	Reduction float64 `json:"reduction_pct"`
	Reason    string  `json:"reason,omitempty"`
	Err       error   `json:"-"`
}

// Failed reports whether the file could not be processed
func (r ProcessResult) Failed() bool {
	return r.Status == StatusFailed
}

// Saved returns the number of bytes removed from the file
func (r ProcessResult) Saved() int64 {
	if r.Status != StatusOptimized && r.Status != StatusDryRun {
		return 0
	}
	return r.OriginalSize - r.OptimizedSize
}
