package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/internal/core/ports"
)

// DefaultStylesheetThreshold is the size above which a stylesheet is flagged
const DefaultStylesheetThreshold int64 = 50000

// AdvisoryService produces read-only suggestions about HTML and CSS files
type AdvisoryService struct {
	repo      ports.AssetRepository
	threshold int64
	logger    *zap.SugaredLogger
}

// NewAdvisoryService creates a scanner flagging stylesheets strictly larger
// than threshold bytes (DefaultStylesheetThreshold when <= 0)
func NewAdvisoryService(repo ports.AssetRepository, threshold int64, logger *zap.SugaredLogger) *AdvisoryService {
	if threshold <= 0 {
		threshold = DefaultStylesheetThreshold
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &AdvisoryService{
		repo:      repo,
		threshold: threshold,
		logger:    logger,
	}
}

// ScanRequest represents an advisory scan of a directory
type ScanRequest struct {
	Root string
}

// ScanResponse holds the findings of a scan
type ScanResponse struct {
	FilesScanned int
	Findings     []domain.Finding
}

// ByCategory returns the findings of one check
func (r *ScanResponse) ByCategory(category domain.Category) []domain.Finding {
	var out []domain.Finding
	for _, f := range r.Findings {
		if f.Category == category {
			out = append(out, f)
		}
	}
	return out
}

// Scan runs the inline-style and render-blocking checks over HTML files,
// then the size check over CSS files. Nothing is written.
func (s *AdvisoryService) Scan(ctx context.Context, req ScanRequest) (*ScanResponse, error) {
	htmlFiles, err := s.repo.Discover(ctx, req.Root, domain.KindHTML)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate html files: %w", err)
	}
	cssFiles, err := s.repo.Discover(ctx, req.Root, domain.KindCSS)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate css files: %w", err)
	}

	response := &ScanResponse{}

	var inline, blocking []domain.Finding
	for _, path := range htmlFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := s.repo.Read(ctx, path)
		if err != nil {
			s.logger.Warnw("skipping unreadable file", "path", path, "error", err)
			continue
		}
		response.FilesScanned++

		if f, ok := checkInlineStyles(path, content); ok {
			inline = append(inline, f)
		}
		if f, ok := checkRenderBlockingScripts(path, content); ok {
			blocking = append(blocking, f)
		}
	}

	var oversized []domain.Finding
	for _, path := range cssFiles {
		content, err := s.repo.Read(ctx, path)
		if err != nil {
			s.logger.Warnw("skipping unreadable file", "path", path, "error", err)
			continue
		}
		response.FilesScanned++

		size := int64(len(content))
		if size <= s.threshold {
			continue
		}
		msg := fmt.Sprintf("stylesheet is %.1f KB (limit %.1f KB), consider splitting it into smaller files",
			float64(size)/1024, float64(s.threshold)/1024)
		oversized = append(oversized, domain.Finding{
			Path:     path,
			Category: domain.CategoryOversizedStylesheet,
			Message:  msg,
		})
	}

	response.Findings = append(response.Findings, inline...)
	response.Findings = append(response.Findings, blocking...)
	response.Findings = append(response.Findings, oversized...)
	return response, nil
}

// checkInlineStyles flags a document with any element carrying a style
// attribute. The tokenizer treats <script> and <style> bodies as raw text,
// so markup inside them is not counted.
func checkInlineStyles(path string, content []byte) (domain.Finding, bool) {
	count := 0
	z := html.NewTokenizer(bytes.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		_, hasAttr := z.TagName()
		for hasAttr {
			var key []byte
			key, _, hasAttr = z.TagAttr()
			if string(key) == "style" {
				count++
				break
			}
		}
	}

	if count == 0 {
		return domain.Finding{}, false
	}
	return domain.Finding{
		Path:     path,
		Category: domain.CategoryInlineStyle,
		Message:  fmt.Sprintf("%d element(s) use inline styles, consider moving them to external CSS", count),
	}, true
}

// checkRenderBlockingScripts flags a document whose <head> holds classic
// scripts without async or defer. The HTML5 parser places anything before
// <body> into the head, so documents without explicit <head> tags work too.
func checkRenderBlockingScripts(path string, content []byte) (domain.Finding, bool) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return domain.Finding{}, false
	}

	head := findElement(doc, atom.Head)
	if head == nil {
		return domain.Finding{}, false
	}

	count := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Script && isBlockingScript(n) {
			count++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(head)

	if count == 0 {
		return domain.Finding{}, false
	}
	return domain.Finding{
		Path:     path,
		Category: domain.CategoryRenderBlockingScript,
		Message:  fmt.Sprintf("%d render-blocking script(s) in <head>, consider adding 'async' or 'defer'", count),
	}, true
}

// isBlockingScript reports whether a <script> element halts parsing.
// Module scripts are deferred by default and data blocks (JSON-LD,
// templates) never execute.
func isBlockingScript(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "async", "defer":
			return false
		case "type":
			t := strings.ToLower(strings.TrimSpace(attr.Val))
			if t != "" && t != "text/javascript" && t != "application/javascript" {
				return false
			}
		}
	}
	return true
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}
