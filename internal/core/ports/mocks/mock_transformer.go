package mocks

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/kamal-hamza/webopt/internal/core/domain"
)

// --- MockTransformer ---

// MockTransformer uppercases and trims its input, which is idempotent and
// shrinks content with surrounding whitespace
type MockTransformer struct {
	mu         sync.Mutex
	calls      []domain.Kind
	kinds      map[domain.Kind]bool
	failMarker []byte
	failError  error
	output     []byte
}

// NewMockTransformer creates a transformer supporting the given kinds
// (all kinds when none are given)
func NewMockTransformer(kinds ...domain.Kind) *MockTransformer {
	if len(kinds) == 0 {
		kinds = domain.AllKinds
	}
	m := &MockTransformer{kinds: make(map[domain.Kind]bool)}
	for _, k := range kinds {
		m.kinds[k] = true
	}
	return m
}

func (m *MockTransformer) Supports(kind domain.Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kinds[kind]
}

func (m *MockTransformer) Transform(ctx context.Context, kind domain.Kind, content []byte) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, kind)

	if m.failMarker != nil && bytes.Contains(content, m.failMarker) {
		if m.failError != nil {
			return nil, m.failError
		}
		return nil, fmt.Errorf("mock transform rejected %s content", kind)
	}
	if m.output != nil {
		out := make([]byte, len(m.output))
		copy(out, m.output)
		return out, nil
	}
	return bytes.ToUpper(bytes.TrimSpace(content)), nil
}

// SetFailOn makes Transform fail for any content containing marker
func (m *MockTransformer) SetFailOn(marker string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failMarker = []byte(marker)
	m.failError = err
}

// SetOutput makes Transform return a fixed payload
func (m *MockTransformer) SetOutput(out []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.output = out
}

func (m *MockTransformer) GetCalls() []domain.Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]domain.Kind, len(m.calls))
	copy(calls, m.calls)
	return calls
}

func (m *MockTransformer) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
	m.failMarker = nil
	m.failError = nil
	m.output = nil
}

// --- MockPrecompressor ---

type MockPrecompressor struct {
	mu    sync.Mutex
	calls []string
}

func NewMockPrecompressor() *MockPrecompressor {
	return &MockPrecompressor{}
}

func (m *MockPrecompressor) Precompress(ctx context.Context, path string, data []byte) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, path)
	return []string{path + ".gz"}, nil
}

func (m *MockPrecompressor) GetCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}
