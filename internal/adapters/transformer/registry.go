package transformer

import (
	"context"
	"fmt"

	"github.com/kamal-hamza/webopt/internal/core/domain"
	"github.com/kamal-hamza/webopt/internal/core/ports"
)

// Registry routes each asset kind to the first registered transformer that
// supports it
type Registry struct {
	transformers []ports.Transformer
}

// NewRegistry creates a registry over the given transformers
func NewRegistry(transformers ...ports.Transformer) *Registry {
	return &Registry{transformers: transformers}
}

func (r *Registry) Supports(kind domain.Kind) bool {
	return r.lookup(kind) != nil
}

func (r *Registry) Transform(ctx context.Context, kind domain.Kind, content []byte) ([]byte, error) {
	t := r.lookup(kind)
	if t == nil {
		return nil, fmt.Errorf("no transformer registered for %s assets", kind)
	}
	return t.Transform(ctx, kind, content)
}

func (r *Registry) lookup(kind domain.Kind) ports.Transformer {
	for _, t := range r.transformers {
		if t.Supports(kind) {
			return t
		}
	}
	return nil
}
