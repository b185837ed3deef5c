package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/internal/core/ports"
	"github.com/kamal-hamza/webopt/pkg/workspace"
)

// DefaultWatchDebounce is how long the watcher waits for writes to settle
const DefaultWatchDebounce = 500 * time.Millisecond

// WatchService re-optimizes assets as they are created or saved
type WatchService struct {
	workspace *workspace.Workspace
	repo      ports.AssetRepository
	pipeline  *PipelineService
	debounce  time.Duration
	logger    *zap.SugaredLogger
}

func NewWatchService(ws *workspace.Workspace, repo ports.AssetRepository, pipeline *PipelineService, debounce time.Duration, logger *zap.SugaredLogger) *WatchService {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &WatchService{
		workspace: ws,
		repo:      repo,
		pipeline:  pipeline,
		debounce:  debounce,
		logger:    logger,
	}
}

// WatchRequest represents a watch session
type WatchRequest struct {
	Root        string
	Kinds       []domain.Kind
	DryRun      bool
	ForceImages bool

	// OnResult is called for every file that was optimized, skipped or
	// failed. Files whose content was already optimal are not reported,
	// which keeps the watcher quiet about its own writes.
	OnResult func(domain.ProcessResult)

	// Ready is called once the tree is being watched
	Ready func()
}

// Watch blocks until ctx is cancelled, running every created or written
// asset through the pipeline once events for it have been quiet for the
// debounce interval
func (s *WatchService) Watch(ctx context.Context, req WatchRequest) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	enabled := orderKinds(req.Kinds)
	pending := make(map[string]domain.Kind)

	queue := func(path string) bool {
		kind, ok := s.accept(req.Root, path, enabled)
		if ok {
			pending[path] = kind
		}
		return ok
	}

	if _, err := s.addTree(watcher, req.Root, ""); err != nil {
		return err
	}
	s.logger.Debugw("watching", "root", req.Root, "kinds", enabled, "debounce", s.debounce)

	if req.Ready != nil {
		req.Ready()
	}

	var timer *time.Timer
	var timerC <-chan time.Time
	arm := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.NewTimer(s.debounce)
		timerC = timer.C
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}

			if info.IsDir() {
				// Files may land in a new directory before it is watched
				found, err := s.addTree(watcher, req.Root, event.Name)
				if err != nil {
					s.logger.Warnw("failed to watch directory", "path", event.Name, "error", err)
				}
				queued := false
				for _, path := range found {
					queued = queue(path) || queued
				}
				if queued {
					arm()
				}
				continue
			}

			if queue(event.Name) {
				arm()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warnw("watcher error", "error", err)

		case <-timerC:
			timerC = nil
			s.flush(ctx, req, pending)
			clear(pending)
		}
	}
}

// flush processes the pending files in path order
func (s *WatchService) flush(ctx context.Context, req WatchRequest, pending map[string]domain.Kind) {
	paths := make([]string, 0, len(pending))
	for path := range pending {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		// Gone again, or replaced by something that is not a file
		if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
			continue
		}

		result := s.pipeline.ProcessFile(ctx, FileRequest{
			Path:        path,
			Kind:        pending[path],
			DryRun:      req.DryRun,
			ForceImages: req.ForceImages,
		})
		if result.Status == domain.StatusUnchanged {
			continue
		}
		if req.OnResult != nil {
			req.OnResult(result)
		}
	}
}

// accept reports whether path is an enabled asset the watcher should process
func (s *WatchService) accept(root, path string, enabled []domain.Kind) (domain.Kind, bool) {
	if s.workspace.IsBackup(path) {
		return "", false
	}
	kind, ok := domain.KindForPath(path)
	if !ok || !slices.Contains(enabled, kind) {
		return "", false
	}
	if s.repo.Excluded(root, path) {
		return "", false
	}
	return kind, true
}

// addTree watches dir (root when empty) and every non-excluded directory
// below it, returning the regular files found along the way
func (s *WatchService) addTree(watcher *fsnotify.Watcher, root string, dir string) ([]string, error) {
	start := dir
	if start == "" {
		start = root
	}

	var files []string
	err := filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == start {
				return err
			}
			s.logger.Warnw("skipping unreadable path", "path", path, "error", err)
			return nil
		}
		if path != root && s.repo.Excluded(root, path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			return nil
		}
		if d.Type().IsRegular() && dir != "" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to watch directory tree: %w", err)
	}
	return files, nil
}
