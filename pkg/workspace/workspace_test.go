package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_DefaultsToCurrentDirectory(t *testing.T) {
	ws, err := New("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cwd, _ := os.Getwd()
	if ws.RootPath != cwd {
		t.Errorf("expected root %q, got %q", cwd, ws.RootPath)
	}

	if ws.BackupSuffix != DefaultBackupSuffix {
		t.Errorf("expected default suffix %q, got %q", DefaultBackupSuffix, ws.BackupSuffix)
	}

	if ws.ConfigPath != filepath.Join(cwd, ConfigFileName) {
		t.Errorf("unexpected config path %q", ws.ConfigPath)
	}
}

func TestNew_NormalizesSuffix(t *testing.T) {
	ws, err := New(t.TempDir(), "orig")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws.BackupSuffix != ".orig" {
		t.Errorf("expected suffix '.orig', got %q", ws.BackupSuffix)
	}
}

func TestWorkspace_Exists(t *testing.T) {
	dir := t.TempDir()
	ws, _ := New(dir, "")
	if !ws.Exists() {
		t.Error("expected temp dir to exist")
	}

	missing, _ := New(filepath.Join(dir, "missing"), "")
	if missing.Exists() {
		t.Error("expected missing dir to not exist")
	}

	file := filepath.Join(dir, "file.txt")
	os.WriteFile(file, []byte("x"), 0644)
	notDir, _ := New(file, "")
	if notDir.Exists() {
		t.Error("a regular file is not a workspace")
	}
}

func TestWorkspace_BackupPaths(t *testing.T) {
	ws := &Workspace{RootPath: "/site", BackupSuffix: ".backup"}

	tests := []struct {
		name     string
		path     string
		backup   string
		isBackup bool
	}{
		{"css file", "/site/style.css", "/site/style.css.backup", false},
		{"nested js", "/site/js/app.js", "/site/js/app.js.backup", false},
		{"backup file", "/site/style.css.backup", "/site/style.css.backup.backup", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ws.BackupPath(tt.path); got != tt.backup {
				t.Errorf("BackupPath(%q) = %q, want %q", tt.path, got, tt.backup)
			}
			if got := ws.IsBackup(tt.path); got != tt.isBackup {
				t.Errorf("IsBackup(%q) = %v, want %v", tt.path, got, tt.isBackup)
			}
			if got := ws.OriginalPath(ws.BackupPath(tt.path)); got != tt.path {
				t.Errorf("OriginalPath round trip = %q, want %q", got, tt.path)
			}
		})
	}

	if ws.IsBackup(".backup") {
		t.Error("bare suffix should not count as a backup")
	}
}

func TestWorkspace_RelPath(t *testing.T) {
	ws := &Workspace{RootPath: "/site"}

	if got := ws.RelPath("/site/css/a.css"); got != filepath.Join("css", "a.css") {
		t.Errorf("unexpected rel path %q", got)
	}
	if got := ws.RelPath("/elsewhere/a.css"); got != "/elsewhere/a.css" {
		t.Errorf("paths outside root should be returned unchanged, got %q", got)
	}
}

func TestWorkspace_RestoreHint(t *testing.T) {
	ws := &Workspace{BackupSuffix: ".backup"}
	hint := ws.RestoreHint()

	if !strings.Contains(hint, "'*.backup'") {
		t.Errorf("hint should match backup files: %s", hint)
	}
	if !strings.Contains(hint, `${1%.backup}`) {
		t.Errorf("hint should strip the suffix: %s", hint)
	}
}

func TestWorkspace_PrecompressedSiblings(t *testing.T) {
	ws := &Workspace{}
	siblings := ws.PrecompressedSiblings("/site/a.css")
	if len(siblings) != 3 || siblings[0] != "/site/a.css.gz" || siblings[1] != "/site/a.css.br" || siblings[2] != "/site/a.css.zst" {
		t.Errorf("unexpected siblings: %v", siblings)
	}
}
