package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kamal-hamza/webopt/internal/adapters/repository"
	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/pkg/workspace"
)

func newTestAdvisory(t *testing.T, ws *workspace.Workspace) *AdvisoryService {
	t.Helper()
	repo, err := repository.NewFileRepository(ws, nil, nil)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	return NewAdvisoryService(repo, 0, nil)
}

func TestAdvisoryService_InlineStyle(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestAdvisory(t, ws)

	page := filepath.Join(ws.RootPath, "index.html")
	writeFile(t, page, `<html><body><div style="color:red">hi</div></body></html>`)
	writeFile(t, filepath.Join(ws.RootPath, "clean.html"), `<html><body><div class="x">hi</div></body></html>`)

	resp, err := svc.Scan(context.Background(), ScanRequest{Root: ws.RootPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	findings := resp.ByCategory(domain.CategoryInlineStyle)
	if len(findings) != 1 {
		t.Fatalf("expected exactly 1 inline-style finding, got %d: %+v", len(findings), findings)
	}
	if findings[0].Path != page {
		t.Errorf("expected finding for %s, got %s", page, findings[0].Path)
	}
	if resp.FilesScanned != 2 {
		t.Errorf("expected 2 files scanned, got %d", resp.FilesScanned)
	}
}

func TestAdvisoryService_InlineStyle_IgnoresScriptText(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestAdvisory(t, ws)
	writeFile(t, filepath.Join(ws.RootPath, "a.html"),
		`<html><body><script defer>var s = '<p style="x">';</script></body></html>`)

	resp, _ := svc.Scan(context.Background(), ScanRequest{Root: ws.RootPath})
	if n := len(resp.ByCategory(domain.CategoryInlineStyle)); n != 0 {
		t.Errorf("markup inside scripts is not an inline style, got %d findings", n)
	}
}

func TestAdvisoryService_RenderBlockingScripts(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestAdvisory(t, ws)

	tests := []struct {
		name    string
		content string
		flagged bool
	}{
		{"blocking", `<html><head><script src="app.js"></script></head><body></body></html>`, true},
		{"async", `<html><head><script async src="app.js"></script></head><body></body></html>`, false},
		{"defer", `<html><head><script defer src="app.js"></script></head><body></body></html>`, false},
		{"module", `<html><head><script type="module" src="app.js"></script></head><body></body></html>`, false},
		{"json-ld", `<html><head><script type="application/ld+json">{}</script></head><body></body></html>`, false},
		{"body only", `<html><head></head><body><script src="app.js"></script></body></html>`, false},
		{"implicit head", `<title>x</title><script src="app.js"></script><p>body</p>`, true},
	}

	for _, tt := range tests {
		writeFile(t, filepath.Join(ws.RootPath, tt.name+".html"), tt.content)
	}

	resp, err := svc.Scan(context.Background(), ScanRequest{Root: ws.RootPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	flagged := make(map[string]bool)
	for _, f := range resp.ByCategory(domain.CategoryRenderBlockingScript) {
		flagged[strings.TrimSuffix(filepath.Base(f.Path), ".html")] = true
	}

	for _, tt := range tests {
		if flagged[tt.name] != tt.flagged {
			t.Errorf("%s: flagged=%v, want %v", tt.name, flagged[tt.name], tt.flagged)
		}
	}
}

func TestAdvisoryService_OversizedStylesheetThreshold(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestAdvisory(t, ws)

	over := filepath.Join(ws.RootPath, "over.css")
	exact := filepath.Join(ws.RootPath, "exact.css")
	writeFile(t, over, strings.Repeat("a", 50001))
	writeFile(t, exact, strings.Repeat("a", 50000))

	resp, err := svc.Scan(context.Background(), ScanRequest{Root: ws.RootPath})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	findings := resp.ByCategory(domain.CategoryOversizedStylesheet)
	if len(findings) != 1 {
		t.Fatalf("expected only the 50,001-byte file to be flagged, got %+v", findings)
	}
	if findings[0].Path != over {
		t.Errorf("expected %s to be flagged, got %s", over, findings[0].Path)
	}
}

func TestAdvisoryService_CustomThreshold(t *testing.T) {
	ws := newTestWorkspace(t)
	repo, _ := repository.NewFileRepository(ws, nil, nil)
	svc := NewAdvisoryService(repo, 10, nil)
	writeFile(t, filepath.Join(ws.RootPath, "a.css"), strings.Repeat("a", 11))

	resp, _ := svc.Scan(context.Background(), ScanRequest{Root: ws.RootPath})
	if len(resp.ByCategory(domain.CategoryOversizedStylesheet)) != 1 {
		t.Error("expected 11-byte file to exceed a 10-byte threshold")
	}
}

func TestAdvisoryService_ReadOnly(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestAdvisory(t, ws)
	page := filepath.Join(ws.RootPath, "index.html")
	content := `<html><head><script src="a.js"></script></head><body style="margin:0"></body></html>`
	writeFile(t, page, content)

	if _, err := svc.Scan(context.Background(), ScanRequest{Root: ws.RootPath}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := readFile(t, page); got != content {
		t.Error("scan must not modify files")
	}
	entries, _ := os.ReadDir(ws.RootPath)
	if len(entries) != 1 {
		t.Errorf("scan must not create files, found %d entries", len(entries))
	}
}

func TestAdvisoryService_MissingRoot(t *testing.T) {
	ws := newTestWorkspace(t)
	svc := newTestAdvisory(t, ws)

	if _, err := svc.Scan(context.Background(), ScanRequest{Root: filepath.Join(ws.RootPath, "nope")}); err == nil {
		t.Fatal("expected error for missing root")
	}
}
