package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Kind identifies the family an asset belongs to
type Kind string

const (
	KindCSS   Kind = "css"
	KindJS    Kind = "js"
	KindHTML  Kind = "html"
	KindImage Kind = "image"
)

// AllKinds lists every kind in the order the optimizer processes them
var AllKinds = []Kind{KindCSS, KindJS, KindHTML, KindImage}

var kindExtensions = map[Kind][]string{
	KindCSS:   {".css"},
	KindJS:    {".js"},
	KindHTML:  {".html"},
	KindImage: {".jpg", ".jpeg", ".png", ".webp"},
}

// ParseKind converts user input ("css", "JS", "images") into a Kind
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "css":
		return KindCSS, nil
	case "js", "javascript":
		return KindJS, nil
	case "html", "htm":
		return KindHTML, nil
	case "image", "images", "img":
		return KindImage, nil
	}
	return "", fmt.Errorf("unknown asset kind: %q", s)
}

// Extensions returns the lowercase file extensions for the kind
func (k Kind) Extensions() []string {
	return kindExtensions[k]
}

// Patterns returns recursive glob patterns matching the kind's files
// e.g. KindCSS -> ["**/*.css"]
func (k Kind) Patterns() []string {
	exts := kindExtensions[k]
	patterns := make([]string, 0, len(exts))
	for _, ext := range exts {
		patterns = append(patterns, "**/*"+ext)
	}
	return patterns
}

// IsText reports whether the kind is rewritten as text (minified)
func (k Kind) IsText() bool {
	return k == KindCSS || k == KindJS || k == KindHTML
}

// KindForPath resolves the kind from a file extension
func KindForPath(path string) (Kind, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, k := range AllKinds {
		for _, e := range kindExtensions[k] {
			if e == ext {
				return k, true
			}
		}
	}
	return "", false
}

// AssetFile represents a discovered file subject to optimization
type AssetFile struct {
	Path          string `json:"path"`
	Kind          Kind   `json:"kind"`
	OriginalSize  int64  `json:"original_size"`
	OptimizedSize int64  `json:"optimized_size"`
	HasBackup     bool   `json:"has_backup"`
}

// Reduction returns the percentage saved going from original to optimized
// bytes. Empty originals report 0 instead of dividing by zero; growth
// yields a negative value.
func Reduction(original, optimized int64) float64 {
	if original <= 0 {
		return 0
	}
	return 100 * (1 - float64(optimized)/float64(original))
}
