package rules

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/tree"
	"github.com/mitchellh/mapstructure"
)

// Rule is the predicate type attached to routing tree nodes.
type Rule = tree.Rule[*domain.Order]

// Factory builds a rule from its decoded configuration parameters.
type Factory func(params map[string]any) (Rule, error)

// ErrUnknownKind is returned when no factory is registered for a rule kind.
var ErrUnknownKind = errors.New("unknown rule kind")

// ErrInvalidParams is returned when a factory rejects its parameter map.
var ErrInvalidParams = errors.New("invalid rule parameters")

// Registry manages the available rule factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry preloaded with the builtin rule kinds.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	for kind, factory := range builtins() {
		r.Register(kind, factory)
	}
	return r
}

// Register adds a factory for a rule kind.
// If a factory with the same kind exists, it is overwritten.
func (r *Registry) Register(kind string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[kind] = factory
}

// Build looks up the factory for kind and invokes it with params.
func (r *Registry) Build(kind string, params map[string]any) (Rule, error) {
	r.mu.RLock()
	factory, ok := r.factories[kind]
	r.mu.RUnlock()

	if !ok {
		return Rule{}, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return factory(params)
}

// Kinds returns the registered rule kinds, for diagnostics.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	return kinds
}

// decodeParams maps a raw parameter map onto a typed option struct.
// Weak typing smooths over YAML's numeric and scalar representations.
func decodeParams(kind string, params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("%s: %w: %v", kind, ErrInvalidParams, err)
	}
	return nil
}
