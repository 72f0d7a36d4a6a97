package render

import (
	"sort"

	"github.com/tehbilly/intellij-markdown/pkg/ast"
)

// Registry maps node types to strategies.
// It is immutable once built and safe to share between concurrent renders.
type Registry struct {
	strategies map[ast.Type]Strategy
}

// NewRegistry copies the given associations. Nil strategies are dropped.
func NewRegistry(strategies map[ast.Type]Strategy) *Registry {
	r := &Registry{
		strategies: make(map[ast.Type]Strategy, len(strategies)),
	}
	for typ, s := range strategies {
		if s != nil {
			r.strategies[typ] = s
		}
	}
	return r
}

// Lookup returns the strategy for typ.
// A missing strategy is not an error: callers fall back to default behaviour.
func (r *Registry) Lookup(typ ast.Type) (Strategy, bool) {
	if r == nil {
		return nil, false
	}
	s, ok := r.strategies[typ]
	return s, ok
}

// Len returns the number of registered types.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.strategies)
}

// Types returns the registered types in lexical order.
func (r *Registry) Types() []ast.Type {
	if r == nil {
		return nil
	}
	types := make([]ast.Type, 0, len(r.strategies))
	for typ := range r.strategies {
		types = append(types, typ)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}
