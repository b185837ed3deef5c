package transformer

import (
	"context"
	"testing"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/internal/core/ports/mocks"
)

func TestRegistry_RoutesByKind(t *testing.T) {
	text := mocks.NewMockTransformer(domain.KindCSS, domain.KindJS)
	images := mocks.NewMockTransformer(domain.KindImage)
	images.SetOutput([]byte("img"))

	r := NewRegistry(text, images)

	out, err := r.Transform(context.Background(), domain.KindCSS, []byte(" a{} "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "A{}" {
		t.Errorf("expected text transformer output, got %q", out)
	}

	out, err = r.Transform(context.Background(), domain.KindImage, []byte("raw"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "img" {
		t.Errorf("expected image transformer output, got %q", out)
	}

	if len(text.GetCalls()) != 1 || len(images.GetCalls()) != 1 {
		t.Errorf("expected one call each, got text=%v images=%v", text.GetCalls(), images.GetCalls())
	}
}

func TestRegistry_Unsupported(t *testing.T) {
	r := NewRegistry(mocks.NewMockTransformer(domain.KindCSS))

	if r.Supports(domain.KindHTML) {
		t.Error("expected html to be unsupported")
	}
	if _, err := r.Transform(context.Background(), domain.KindHTML, []byte("<p>")); err == nil {
		t.Error("expected error for unsupported kind")
	}
}
