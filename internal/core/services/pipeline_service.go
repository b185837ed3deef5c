package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/internal/core/ports"
)

// PipelineService runs the discover → backup → transform → write → measure
// routine shared by every asset kind
type PipelineService struct {
	repo          ports.AssetRepository
	transformer   ports.Transformer
	backups       ports.BackupGuard
	precompressor ports.Precompressor
	logger        *zap.SugaredLogger
}

// NewPipelineService creates a pipeline. precompressor may be nil.
func NewPipelineService(repo ports.AssetRepository, transformer ports.Transformer, backups ports.BackupGuard, precompressor ports.Precompressor, logger *zap.SugaredLogger) *PipelineService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PipelineService{
		repo:          repo,
		transformer:   transformer,
		backups:       backups,
		precompressor: precompressor,
		logger:        logger,
	}
}

// ProcessRequest represents one pass over a directory for one asset kind
type ProcessRequest struct {
	Root        string
	Kind        domain.Kind
	DryRun      bool
	ForceImages bool

	// OnResult, when set, is called after each file is processed
	OnResult func(domain.ProcessResult)
}

// ProcessResponse aggregates the per-file results of a pass
type ProcessResponse struct {
	Kind      domain.Kind
	Total     int
	Optimized int
	Unchanged int
	Skipped   int
	Failed    int
	Results   []domain.ProcessResult
}

// FileRequest represents processing a single file
type FileRequest struct {
	Path        string
	Kind        domain.Kind
	DryRun      bool
	ForceImages bool
}

// Process runs every file of req.Kind under req.Root through the pipeline.
// Per-file failures are recorded in the results and never abort the pass;
// the only returned errors are failing to enumerate the root and
// cancellation, in which case the results gathered so far are returned too.
func (s *PipelineService) Process(ctx context.Context, req ProcessRequest) (*ProcessResponse, error) {
	if !s.transformer.Supports(req.Kind) {
		return nil, fmt.Errorf("no transformer available for %s assets", req.Kind)
	}

	paths, err := s.repo.Discover(ctx, req.Root, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s files: %w", req.Kind, err)
	}

	s.logger.Debugw("discovered assets", "kind", req.Kind, "count", len(paths))

	response := &ProcessResponse{
		Kind:    req.Kind,
		Results: make([]domain.ProcessResult, 0, len(paths)),
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return response, err
		}

		result := s.ProcessFile(ctx, FileRequest{
			Path:        path,
			Kind:        req.Kind,
			DryRun:      req.DryRun,
			ForceImages: req.ForceImages,
		})
		response.add(result)

		if req.OnResult != nil {
			req.OnResult(result)
		}
	}

	return response, nil
}

// ProcessFile runs a single file through backup, transform and write.
// The file is either fully rewritten or left as it was.
func (s *PipelineService) ProcessFile(ctx context.Context, req FileRequest) domain.ProcessResult {
	result := domain.ProcessResult{
		AssetFile: domain.AssetFile{
			Path:      req.Path,
			Kind:      req.Kind,
			HasBackup: s.backups.HasBackup(req.Path),
		},
	}

	// Lossy re-encoding compounds; leave images alone once they have been
	// rewritten since their backup was taken
	if req.Kind == domain.KindImage && result.HasBackup && !req.ForceImages {
		diverged, err := s.backups.Diverged(req.Path)
		if err != nil {
			return s.fail(result, domain.NewReadError(req.Path, err))
		}
		if diverged {
			result.Status = domain.StatusSkipped
			result.Reason = "already recompressed"
			s.logger.Debugw("skipping recompressed image", "path", req.Path)
			return result
		}
	}

	if !req.DryRun {
		if err := s.backups.EnsureBackup(ctx, req.Path); err != nil {
			return s.fail(result, err)
		}
		result.HasBackup = true
	}

	content, err := s.repo.Read(ctx, req.Path)
	if err != nil {
		return s.fail(result, domain.NewReadError(req.Path, err))
	}
	result.OriginalSize = int64(len(content))
	result.OptimizedSize = result.OriginalSize

	optimized, err := s.transformer.Transform(ctx, req.Kind, content)
	if err != nil {
		return s.fail(result, domain.NewTransformError(req.Path, err))
	}

	if bytes.Equal(optimized, content) {
		result.Status = domain.StatusUnchanged
		result.Reason = "already optimal"
		return result
	}

	// A re-encode that grew the image is discarded
	if req.Kind == domain.KindImage && len(optimized) >= len(content) {
		result.Status = domain.StatusUnchanged
		result.Reason = "re-encoded image was not smaller"
		return result
	}

	result.OptimizedSize = int64(len(optimized))
	result.Reduction = domain.Reduction(result.OriginalSize, result.OptimizedSize)

	if req.DryRun {
		result.Status = domain.StatusDryRun
		return result
	}

	if err := s.repo.Write(ctx, req.Path, optimized); err != nil {
		result.OptimizedSize = result.OriginalSize
		result.Reduction = 0
		return s.fail(result, domain.NewWriteError(req.Path, err))
	}

	result.Status = domain.StatusOptimized
	s.logger.Infow("optimized asset",
		"path", req.Path,
		"kind", req.Kind,
		"before", result.OriginalSize,
		"after", result.OptimizedSize,
	)

	if s.precompressor != nil && req.Kind.IsText() {
		if _, err := s.precompressor.Precompress(ctx, req.Path, optimized); err != nil {
			s.logger.Warnw("precompression failed", "path", req.Path, "error", err)
		}
	}

	return result
}

func (s *PipelineService) fail(result domain.ProcessResult, err error) domain.ProcessResult {
	result.Status = domain.StatusFailed
	result.Err = err

	var fe *domain.FileError
	if errors.As(err, &fe) {
		result.Reason = fe.Kind.Error()
	}

	s.logger.Errorw("failed to process asset", "path", result.Path, "kind", result.Kind, "error", err)
	return result
}

func (r *ProcessResponse) add(result domain.ProcessResult) {
	r.Total++
	switch result.Status {
	case domain.StatusOptimized, domain.StatusDryRun:
		r.Optimized++
	case domain.StatusUnchanged:
		r.Unchanged++
	case domain.StatusSkipped:
		r.Skipped++
	case domain.StatusFailed:
		r.Failed++
	}
	r.Results = append(r.Results, result)
}
