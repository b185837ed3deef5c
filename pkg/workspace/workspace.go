package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// DefaultBackupSuffix is appended to a file's path to name its backup
	DefaultBackupSuffix = ".backup"

	// ConfigFileName is looked up in the target directory
	ConfigFileName = ".webopt.yaml"
)

// PrecompressedExtensions are the sibling suffixes written by precompression
var PrecompressedExtensions = []string{".gz", ".br", ".zst"}

// Workspace represents the directory tree being optimized
type Workspace struct {
	RootPath     string
	ConfigPath   string
	BackupSuffix string
}

// New creates a Workspace rooted at root. An empty root means the current
// working directory.
func New(root string, backupSuffix string) (*Workspace, error) {
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target directory: %w", err)
	}

	if backupSuffix == "" {
		backupSuffix = DefaultBackupSuffix
	}
	if !strings.HasPrefix(backupSuffix, ".") {
		backupSuffix = "." + backupSuffix
	}

	return &Workspace{
		RootPath:     abs,
		ConfigPath:   filepath.Join(abs, ConfigFileName),
		BackupSuffix: backupSuffix,
	}, nil
}

// Exists checks if the root is an existing directory
func (w *Workspace) Exists() bool {
	info, err := os.Stat(w.RootPath)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// BackupPath returns the backup location for a file
// e.g. style.css -> style.css.backup
func (w *Workspace) BackupPath(path string) string {
	return path + w.BackupSuffix
}

// IsBackup reports whether path names a backup file
func (w *Workspace) IsBackup(path string) bool {
	return strings.HasSuffix(path, w.BackupSuffix) && len(path) > len(w.BackupSuffix)
}

// OriginalPath strips the backup suffix, the inverse of BackupPath
func (w *Workspace) OriginalPath(backupPath string) string {
	return strings.TrimSuffix(backupPath, w.BackupSuffix)
}

// PrecompressedSiblings returns the .gz/.br/.zst paths that may sit next to path
func (w *Workspace) PrecompressedSiblings(path string) []string {
	siblings := make([]string, 0, len(PrecompressedExtensions))
	for _, ext := range PrecompressedExtensions {
		siblings = append(siblings, path+ext)
	}
	return siblings
}

// RelPath returns path relative to the root for display, falling back to
// the path itself when it lies outside the root
func (w *Workspace) RelPath(path string) string {
	rel, err := filepath.Rel(w.RootPath, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// RestoreHint returns a shell one-liner that undoes a run by moving every
// backup over its original
func (w *Workspace) RestoreHint() string {
	return fmt.Sprintf(`find . -name '*%s' -exec sh -c 'mv "$1" "${1%%%s}"' - '{}' \;`, w.BackupSuffix, w.BackupSuffix)
}
