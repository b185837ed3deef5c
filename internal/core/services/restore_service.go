package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/internal/core/ports"
	"github.com/kamal-hamza/webopt/pkg/workspace"
)

// RestoreService moves backups back over the files they were taken from
type RestoreService struct {
	workspace *workspace.Workspace
	repo      ports.AssetRepository
	logger    *zap.SugaredLogger
}

func NewRestoreService(ws *workspace.Workspace, repo ports.AssetRepository, logger *zap.SugaredLogger) *RestoreService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &RestoreService{
		workspace: ws,
		repo:      repo,
		logger:    logger,
	}
}

// RestoreResult describes one restored file
type RestoreResult struct {
	Path       string
	BackupPath string
	Removed    []string
}

// RestoreFailure pairs a backup with the reason it could not be restored
type RestoreFailure struct {
	BackupPath string
	Err        error
}

// RestoreAllResponse aggregates a bulk restore
type RestoreAllResponse struct {
	Restored []RestoreResult
	Failed   []RestoreFailure
}

// ListBackups returns every backup under root
func (s *RestoreService) ListBackups(ctx context.Context, root string) ([]string, error) {
	backups, err := s.repo.ListBackups(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return backups, nil
}

// Restore renames the backup of path over path. Either the original or the
// backup path may be given. Precompressed siblings of the optimized file
// are removed since they no longer match its content.
func (s *RestoreService) Restore(ctx context.Context, path string) (*RestoreResult, error) {
	original := path
	if s.workspace.IsBackup(path) {
		original = s.workspace.OriginalPath(path)
	}
	backup := s.workspace.BackupPath(original)

	info, err := os.Stat(backup)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no backup found for %s", original)
		}
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("backup is not a regular file: %s", backup)
	}

	if err := os.Rename(backup, original); err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", original, err)
	}

	result := &RestoreResult{Path: original, BackupPath: backup}
	for _, sibling := range s.workspace.PrecompressedSiblings(original) {
		err := os.Remove(sibling)
		if err == nil {
			result.Removed = append(result.Removed, sibling)
			continue
		}
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warnw("failed to remove stale precompressed file", "path", sibling, "error", err)
		}
	}

	s.logger.Infow("restored file", "path", original)
	return result, nil
}

// RestoreAll restores every backup under root. Individual failures are
// collected and do not stop the remaining restores.
func (s *RestoreService) RestoreAll(ctx context.Context, root string) (*RestoreAllResponse, error) {
	backups, err := s.ListBackups(ctx, root)
	if err != nil {
		return nil, err
	}

	response := &RestoreAllResponse{}
	for _, backup := range backups {
		if err := ctx.Err(); err != nil {
			return response, err
		}
		result, err := s.Restore(ctx, backup)
		if err != nil {
			s.logger.Errorw("failed to restore file", "backup", backup, "error", err)
			response.Failed = append(response.Failed, RestoreFailure{BackupPath: backup, Err: err})
			continue
		}
		response.Restored = append(response.Restored, *result)
	}
	return response, nil
}

// PurgeResponse lists the backups deleted by PurgeBackups
type PurgeResponse struct {
	Removed []string
	Failed  []RestoreFailure
}

// PurgeBackups deletes every backup under root, keeping the optimized files.
// Afterwards the run can no longer be undone.
func (s *RestoreService) PurgeBackups(ctx context.Context, root string) (*PurgeResponse, error) {
	backups, err := s.ListBackups(ctx, root)
	if err != nil {
		return nil, err
	}

	response := &PurgeResponse{}
	for _, backup := range backups {
		if err := ctx.Err(); err != nil {
			return response, err
		}
		if err := os.Remove(backup); err != nil {
			s.logger.Errorw("failed to remove backup", "backup", backup, "error", err)
			response.Failed = append(response.Failed, RestoreFailure{BackupPath: backup, Err: err})
			continue
		}
		response.Removed = append(response.Removed, backup)
	}

	s.logger.Infow("purged backups", "root", root, "removed", len(response.Removed))
	return response, nil
}

// Status compares every backup under root with the current file, giving
// the savings accumulated across runs. Backups whose original has been
// deleted are reported with OptimizedSize 0 and HasBackup true.
func (s *RestoreService) Status(ctx context.Context, root string) ([]domain.AssetFile, error) {
	backups, err := s.ListBackups(ctx, root)
	if err != nil {
		return nil, err
	}

	files := make([]domain.AssetFile, 0, len(backups))
	for _, backup := range backups {
		original := s.workspace.OriginalPath(backup)
		kind, _ := domain.KindForPath(original)

		info, err := os.Stat(backup)
		if err != nil {
			s.logger.Warnw("skipping unreadable backup", "backup", backup, "error", err)
			continue
		}

		file := domain.AssetFile{
			Path:         original,
			Kind:         kind,
			OriginalSize: info.Size(),
			HasBackup:    true,
		}
		if current, err := os.Stat(original); err == nil {
			file.OptimizedSize = current.Size()
		}
		files = append(files, file)
	}
	return files, nil
}
