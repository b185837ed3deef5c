package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kamal-hamza/webopt/internal/core/domain"
)

// OptimizeService drives a full run: one pipeline pass per enabled kind,
// then the advisory scan
type OptimizeService struct {
	pipeline *PipelineService
	advisory *AdvisoryService
	logger   *zap.SugaredLogger
}

// NewOptimizeService creates a run driver. advisory may be nil.
func NewOptimizeService(pipeline *PipelineService, advisory *AdvisoryService, logger *zap.SugaredLogger) *OptimizeService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &OptimizeService{
		pipeline: pipeline,
		advisory: advisory,
		logger:   logger,
	}
}

// OptimizeRequest represents an optimize run
type OptimizeRequest struct {
	Root        string
	Kinds       []domain.Kind
	DryRun      bool
	ForceImages bool
	Advisories  bool

	OnResult func(domain.ProcessResult)
}

// OptimizeResponse holds the per-kind passes and the run record
type OptimizeResponse struct {
	Run    domain.Run
	Passes []*ProcessResponse
}

// HasFailures reports whether any file in the run failed
func (r *OptimizeResponse) HasFailures() bool {
	return r.Run.HasFailures()
}

// Execute runs the enabled kinds in the fixed order css, js, html, image,
// regardless of the order they were requested in. An empty Kinds enables
// all of them. On error the response gathered so far is returned with it.
func (s *OptimizeService) Execute(ctx context.Context, req OptimizeRequest) (*OptimizeResponse, error) {
	kinds := orderKinds(req.Kinds)

	response := &OptimizeResponse{
		Run: domain.Run{
			ID:        uuid.Must(uuid.NewV7()).String(),
			Root:      req.Root,
			DryRun:    req.DryRun,
			StartedAt: time.Now(),
			Results:   []domain.ProcessResult{},
			Findings:  []domain.Finding{},
		},
	}
	logger := s.logger.With("run", response.Run.ID)
	logger.Debugw("starting run", "root", req.Root, "kinds", kinds, "dry_run", req.DryRun)

	finish := func() {
		response.Run.FinishedAt = time.Now()
	}

	for _, kind := range kinds {
		pass, err := s.pipeline.Process(ctx, ProcessRequest{
			Root:        req.Root,
			Kind:        kind,
			DryRun:      req.DryRun,
			ForceImages: req.ForceImages,
			OnResult:    req.OnResult,
		})
		if pass != nil {
			response.Passes = append(response.Passes, pass)
			response.Run.Results = append(response.Run.Results, pass.Results...)
		}
		if err != nil {
			finish()
			return response, fmt.Errorf("%s pass failed: %w", kind, err)
		}
		logger.Debugw("pass complete",
			"kind", kind,
			"total", pass.Total,
			"optimized", pass.Optimized,
			"failed", pass.Failed,
		)
	}

	if req.Advisories && s.advisory != nil {
		scan, err := s.advisory.Scan(ctx, ScanRequest{Root: req.Root})
		if err != nil {
			finish()
			return response, fmt.Errorf("advisory scan failed: %w", err)
		}
		response.Run.Findings = scan.Findings
	}

	finish()

	if response.HasFailures() {
		logger.Warnw("run finished with failures", "failed", response.Run.Count(domain.StatusFailed))
	}

	return response, nil
}

// orderKinds returns the requested kinds in pipeline order without duplicates
func orderKinds(requested []domain.Kind) []domain.Kind {
	if len(requested) == 0 {
		return slices.Clone(domain.AllKinds)
	}
	var kinds []domain.Kind
	for _, k := range domain.AllKinds {
		if slices.Contains(requested, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
