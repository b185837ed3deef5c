package repository

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/moby/sys/atomicwriter"
	"go.uber.org/zap"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/pkg/workspace"
)

// FileRepository implements AssetRepository on the local filesystem
type FileRepository struct {
	workspace *workspace.Workspace
	exclude   []string
	logger    *zap.SugaredLogger
}

// NewFileRepository creates a repository that skips paths matching any of
// the exclude globs (relative to the walked root, e.g. "**/node_modules/**")
func NewFileRepository(ws *workspace.Workspace, exclude []string, logger *zap.SugaredLogger) (*FileRepository, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &FileRepository{
		workspace: ws,
		exclude:   exclude,
		logger:    logger,
	}, nil
}

// Discover walks root in lexical order and returns every regular file whose
// root-relative path matches one of kind's patterns. Only a failure to read
// root itself is returned; unreadable subdirectories are logged and skipped.
func (r *FileRepository) Discover(ctx context.Context, root string, kind domain.Kind) ([]string, error) {
	patterns := kind.Patterns()
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no patterns for asset kind %q", kind)
	}

	var files []string
	err := r.walk(ctx, root, func(path, rel string) {
		if r.workspace.IsBackup(path) {
			return
		}
		// Extensions are matched case-insensitively (photo.JPG)
		name := strings.ToLower(rel)
		for _, pattern := range patterns {
			if ok, _ := doublestar.Match(pattern, name); ok {
				files = append(files, path)
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// ListBackups returns every backup file under root
func (r *FileRepository) ListBackups(ctx context.Context, root string) ([]string, error) {
	var backups []string
	err := r.walk(ctx, root, func(path, rel string) {
		if r.workspace.IsBackup(path) {
			backups = append(backups, path)
		}
	})
	if err != nil {
		return nil, err
	}
	return backups, nil
}

// Excluded reports whether a path under root matches an exclude glob
func (r *FileRepository) Excluded(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return r.excludedRel(filepath.ToSlash(rel))
}

func (r *FileRepository) excludedRel(rel string) bool {
	for _, pattern := range r.exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// "**/node_modules/**" should also prune the directory itself
		if ok, _ := doublestar.Match(pattern, rel+"/"); ok {
			return true
		}
	}
	return false
}

// walk visits regular files under root, passing the absolute path and the
// slash-separated root-relative path
func (r *FileRepository) walk(ctx context.Context, root string, visit func(path, rel string)) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to read directory %s: %w", root, err)
			}
			r.logger.Warnw("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if r.excludedRel(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type().IsRegular() {
			visit(path, rel)
		}
		return nil
	})
}

// Read returns the current content of a file
func (r *FileRepository) Read(ctx context.Context, path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Write atomically replaces path with data, keeping its permission bits.
// The data goes to a temp file in the same directory which is then renamed
// over path, so readers see either the old or the new content.
func (r *FileRepository) Write(ctx context.Context, path string, data []byte) error {
	perm := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return atomicwriter.WriteFile(path, data, perm)
}
