package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kamal-hamza/webopt/internal/adapters/repository"
	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/internal/core/ports/mocks"
	"github.com/kamal-hamza/webopt/pkg/workspace"
)

func newTestRestore(t *testing.T, ws *workspace.Workspace) *RestoreService {
	t.Helper()
	repo, err := repository.NewFileRepository(ws, nil, nil)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return NewRestoreService(ws, repo, nil)
}

func TestRestoreService_Restore(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestRestore(t, ws)

	path := filepath.Join(ws.RootPath, "style.css")
	writeFile(t, path, "body{color:red}")
	writeFile(t, path+".backup", "body { color: red; }")
	writeFile(t, path+".gz", "stale")

	result, err := svc.Restore(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFile(t, path); got != "body { color: red; }" {
		t.Errorf("expected original content, got %q", got)
	}
	if _, err := os.Stat(path + ".backup"); !os.IsNotExist(err) {
		t.Error("backup should be consumed by the restore")
	}
	if _, err := os.Stat(path + ".gz"); !os.IsNotExist(err) {
		t.Error("stale precompressed sibling should be removed")
	}
	if len(result.Removed) != 1 {
		t.Errorf("expected 1 removed sibling, got %v", result.Removed)
	}
}

func TestRestoreService_Restore_AcceptsBackupPath(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestRestore(t, ws)

	path := filepath.Join(ws.RootPath, "app.js")
	writeFile(t, path, "a")
	writeFile(t, path+".backup", "var a = 1;")

	result, err := svc.Restore(context.Background(), path+".backup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Path != path {
		t.Errorf("expected restored path %s, got %s", path, result.Path)
	}
	if got := readFile(t, path); got != "var a = 1;" {
		t.Errorf("expected original content, got %q", got)
	}
}

func TestRestoreService_Restore_NoBackup(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestRestore(t, ws)

	path := filepath.Join(ws.RootPath, "index.html")
	writeFile(t, path, "<p>hi</p>")

	if _, err := svc.Restore(context.Background(), path); err == nil {
		t.Fatal("expected error when no backup exists")
	}
	if got := readFile(t, path); got != "<p>hi</p>" {
		t.Error("file must be untouched when there is nothing to restore")
	}
}

func TestRestoreService_RestoreAll(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestRestore(t, ws)

	a := filepath.Join(ws.RootPath, "a.css")
	b := filepath.Join(ws.RootPath, "js", "b.js")
	writeFile(t, a, "x")
	writeFile(t, a+".backup", "a original")
	writeFile(t, b, "y")
	writeFile(t, b+".backup", "b original")
	writeFile(t, filepath.Join(ws.RootPath, "c.html"), "no backup")

	resp, err := svc.RestoreAll(context.Background(), ws.RootPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Restored) != 2 || len(resp.Failed) != 0 {
		t.Fatalf("expected 2 restored and 0 failed, got %d/%d", len(resp.Restored), len(resp.Failed))
	}
	if got := readFile(t, a); got != "a original" {
		t.Errorf("a.css not restored: %q", got)
	}
	if got := readFile(t, b); got != "b original" {
		t.Errorf("b.js not restored: %q", got)
	}

	backups, err := svc.ListBackups(context.Background(), ws.RootPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected no backups left, got %v", backups)
	}
}

func TestRestoreService_UndoesOptimizeRun(t *testing.T) {
	ws := newTestWorkspace(t)
	repo, _ := repository.NewFileRepository(ws, nil, nil)
	pipeline := NewPipelineService(repo, mocks.NewMockTransformer(), NewBackupService(ws), nil, nil)
	svc := NewRestoreService(ws, repo, nil)

	path := filepath.Join(ws.RootPath, "style.css")
	writeFile(t, path, "  body { color: red; }  ")

	if _, err := pipeline.Process(context.Background(), ProcessRequest{Root: ws.RootPath, Kind: domain.KindCSS}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if readFile(t, path) == "  body { color: red; }  " {
		t.Fatal("expected the pipeline to rewrite the file")
	}

	if _, err := svc.RestoreAll(context.Background(), ws.RootPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readFile(t, path); got != "  body { color: red; }  " {
		t.Errorf("expected pre-run content after restore, got %q", got)
	}
}

func TestRestoreService_PurgeBackups(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestRestore(t, ws)

	a := filepath.Join(ws.RootPath, "a.css")
	b := filepath.Join(ws.RootPath, "sub", "b.js")
	writeFile(t, a, "a{}")
	writeFile(t, a+".backup", "a { }")
	writeFile(t, b, "b")
	writeFile(t, b+".backup", "var b;")

	resp, err := svc.PurgeBackups(context.Background(), ws.RootPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Removed) != 2 || len(resp.Failed) != 0 {
		t.Fatalf("expected 2 removed, got %d removed %d failed", len(resp.Removed), len(resp.Failed))
	}

	if got := readFile(t, a); got != "a{}" {
		t.Errorf("optimized file must be kept, got %q", got)
	}
	if _, err := os.Stat(a + ".backup"); !os.IsNotExist(err) {
		t.Error("backup should be deleted")
	}
	if _, err := svc.Restore(context.Background(), a); err == nil {
		t.Error("restore should fail once backups are purged")
	}
}

func TestRestoreService_Status(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestRestore(t, ws)

	a := filepath.Join(ws.RootPath, "a.css")
	writeFile(t, a, "a{}")
	writeFile(t, a+".backup", "a {   }")
	writeFile(t, filepath.Join(ws.RootPath, "gone.js.backup"), "var x;")
	writeFile(t, filepath.Join(ws.RootPath, "plain.html"), "<p>")

	files, err := svc.Status(context.Background(), ws.RootPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 backed-up files, got %d", len(files))
	}

	byPath := make(map[string]domain.AssetFile)
	for _, f := range files {
		byPath[f.Path] = f
	}

	got := byPath[a]
	if got.Kind != domain.KindCSS || got.OriginalSize != 7 || got.OptimizedSize != 3 {
		t.Errorf("unexpected status for a.css: %+v", got)
	}
	gone := byPath[filepath.Join(ws.RootPath, "gone.js")]
	if gone.OriginalSize != 6 || gone.OptimizedSize != 0 {
		t.Errorf("unexpected status for deleted original: %+v", gone)
	}
}
