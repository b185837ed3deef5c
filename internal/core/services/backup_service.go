package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/moby/sys/atomicwriter"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/pkg/workspace"
)

// BackupService keeps an untouched copy of every file before it is first
// rewritten. Backups sit beside the original (style.css.backup) and are
// never overwritten, so they always hold the pre-optimization content.
type BackupService struct {
	workspace *workspace.Workspace
}

func NewBackupService(ws *workspace.Workspace) *BackupService {
	return &BackupService{workspace: ws}
}

// EnsureBackup copies path to its backup location if no backup exists yet.
// Mode and modification time are carried over. The copy is written to a
// temp file and renamed, so an interrupted run never leaves a truncated
// backup behind.
func (s *BackupService) EnsureBackup(ctx context.Context, path string) error {
	backupPath := s.workspace.BackupPath(path)
	if existing, err := os.Lstat(backupPath); err == nil {
		if !existing.Mode().IsRegular() {
			return domain.NewReadError(backupPath, fmt.Errorf("backup is not a regular file (%s)", existing.Mode().Type()))
		}
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return domain.NewReadError(backupPath, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return domain.NewReadError(path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.NewReadError(path, err)
	}

	if err := atomicwriter.WriteFile(backupPath, data, info.Mode().Perm()); err != nil {
		return domain.NewWriteError(backupPath, fmt.Errorf("failed to create backup: %w", err))
	}

	// Timestamps are best effort; the content is what matters
	_ = os.Chtimes(backupPath, info.ModTime(), info.ModTime())

	return nil
}

// HasBackup checks whether a backup already exists for path
func (s *BackupService) HasBackup(path string) bool {
	info, err := os.Lstat(s.workspace.BackupPath(path))
	return err == nil && info.Mode().IsRegular()
}

// Diverged reports whether path differs from its backup. A file without a
// backup has not diverged.
func (s *BackupService) Diverged(path string) (bool, error) {
	backupPath := s.workspace.BackupPath(path)

	backupInfo, err := os.Stat(backupPath)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.Size() != backupInfo.Size() {
		return true, nil
	}

	current, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	original, err := os.ReadFile(backupPath)
	if err != nil {
		return false, err
	}
	return !bytes.Equal(current, original), nil
}
