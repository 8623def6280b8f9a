package chain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/algo-gpr/gpr/filter"
)

// Factory builds one Runtime instance for a table row.
type Factory func(ctx Context) (Runtime, error)

// Registry maps filter kinds to their factories.
type Registry struct {
	factories map[filter.Kind]Factory
}

var errDuplicateFilter = errors.New("duplicate filter kind")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[filter.Kind]Factory)}
}

// Register adds a factory for the given kind.
func (r *Registry) Register(kind filter.Kind, factory Factory) error {
	if kind == "" {
		return errors.New("empty filter kind")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("%w: %s", errDuplicateFilter, kind)
	}

	r.factories[kind] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(kind filter.Kind, factory Factory) {
	err := r.Register(kind, factory)
	if err != nil {
		panic("chain registry: " + err.Error())
	}
}

// Lookup returns the factory for the given kind, or nil.
func (r *Registry) Lookup(kind filter.Kind) Factory {
	return r.factories[kind]
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []filter.Kind {
	kinds := make([]filter.Kind, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}
