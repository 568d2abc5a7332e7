package mermaid

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// DialectConverter rewrites one grammar dialect into canonical syntax.
// Convert returns the rewritten source, or an error (typically a
// *ValidationError) when the result must not be used.
type DialectConverter interface {
	Dialect() DiagramType
	Convert(src string, opts Options) (string, error)
}

// Registry is a threadsafe registry of dialect converters. Embedders can hook
// additional dialects (class, state, ER diagrams) without forking the
// pipeline.
type Registry struct {
	mu         sync.RWMutex
	converters map[DiagramType]DialectConverter
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{converters: make(map[DiagramType]DialectConverter)}
}

// ErrConverterExists indicates a duplicate registration attempt.
var ErrConverterExists = errors.New("dialect converter already registered")

// Register adds a converter. Returns ErrConverterExists when the dialect is
// already covered.
func (r *Registry) Register(conv DialectConverter) error {
	if conv == nil {
		return errors.New("dialect converter is nil")
	}
	key := conv.Dialect()
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.converters[key]; exists {
		return fmt.Errorf("%w: %s", ErrConverterExists, key)
	}
	r.converters[key] = conv
	return nil
}

// List returns the registered dialects in sorted order.
func (r *Registry) List() []DiagramType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]DiagramType, 0, len(r.converters))
	for key := range r.converters {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lookup returns the converter for a dialect.
func (r *Registry) Lookup(t DiagramType) (DialectConverter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conv, ok := r.converters[t]
	return conv, ok
}

// converterFor resolves the converter for a classification. Unrecognized
// dialects take the flow path for backward compatibility with headerless
// legacy documents.
func (r *Registry) converterFor(t DiagramType) DialectConverter {
	if conv, ok := r.Lookup(t); ok {
		return conv
	}
	conv, _ := r.Lookup(TypeFlow)
	return conv
}

// DefaultRegistry is pre-populated with the built-in flow and sequence
// converters.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	reg := NewRegistry()
	// ignore duplicate errors to allow idempotent init in tests
	_ = reg.Register(flowConverter{})
	_ = reg.Register(sequenceConverter{})
	return reg
}
