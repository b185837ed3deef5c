package minifier

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/svg"

	"github.com/kamal-hamza/webopt/internal/core/domain"
)

const (
	mediaCSS  = "text/css"
	mediaJS   = "application/javascript"
	mediaHTML = "text/html"
)

var mediaTypes = map[domain.Kind]string{
	domain.KindCSS:  mediaCSS,
	domain.KindJS:   mediaJS,
	domain.KindHTML: mediaHTML,
}

// Minifier is the text transformer for CSS, JS and HTML. Output is a fixed
// point: minifying it again returns the same bytes.
type Minifier struct {
	m *minify.M
}

// New creates a Minifier. HTML keeps document and end tags so the output
// stays readable by naive tooling; inline <style>, <script> and <svg> are
// minified with the same settings as standalone files.
func New() *Minifier {
	m := minify.New()
	m.AddFunc(mediaCSS, css.Minify)
	m.AddFuncRegexp(regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`), js.Minify)
	m.AddFunc("image/svg+xml", svg.Minify)
	m.Add(mediaHTML, &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return &Minifier{m: m}
}

// Supports reports whether kind is a text asset
func (mf *Minifier) Supports(kind domain.Kind) bool {
	_, ok := mediaTypes[kind]
	return ok
}

// Transform minifies content according to kind
func (mf *Minifier) Transform(ctx context.Context, kind domain.Kind, content []byte) ([]byte, error) {
	mediaType, ok := mediaTypes[kind]
	if !ok {
		return nil, fmt.Errorf("minifier does not handle %s assets", kind)
	}

	out, err := mf.m.Bytes(mediaType, content)
	if err != nil {
		return nil, fmt.Errorf("minify %s: %w", kind, err)
	}
	return out, nil
}
