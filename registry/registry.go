package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/specialistvlad/deodorant/descriptor"
)

// FilterFunc is a named predicate applied to a value. arg is the text after
// the first ':' of the filter reference, or "" when there is none.
type FilterFunc func(v any, arg string) bool

// Module is a bundle of aliases and filters that registers itself.
type Module interface {
	Register(r *Registry) error
}

// Registry stores aliases and filters for a single engine instance. It is
// safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	aliases map[string]descriptor.Descriptor
	filters map[string]FilterFunc
	sealed  bool
	logger  *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates and initializes an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		aliases: make(map[string]descriptor.Descriptor),
		filters: make(map[string]FilterFunc),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Use applies each module in order, stopping at the first failure.
func (r *Registry) Use(modules ...Module) error {
	for _, m := range modules {
		if err := m.Register(r); err != nil {
			return fmt.Errorf("registering module %T: %w", m, err)
		}
	}
	return nil
}

// RegisterAlias binds name to d. A later registration of the same name
// replaces the earlier one.
func (r *Registry) RegisterAlias(name string, d descriptor.Descriptor) error {
	if name == "" || descriptor.IsPrimitive(name) {
		return fmt.Errorf("%w: cannot register alias %q", ErrReservedName, name)
	}
	if err := descriptor.Validate(d); err != nil {
		return fmt.Errorf("alias %q: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot register alias %q", ErrSealed, name)
	}
	if _, exists := r.aliases[name]; exists {
		r.logger.Debug("Replacing alias.", "name", name, "type", d.String())
	} else {
		r.logger.Debug("Registering alias.", "name", name, "type", d.String())
	}
	r.aliases[name] = d
	return nil
}

// RegisterFilter binds name to fn. A later registration of the same name
// replaces the earlier one.
func (r *Registry) RegisterFilter(name string, fn FilterFunc) error {
	if name == "" {
		return fmt.Errorf("%w: cannot register a filter without a name", ErrReservedName)
	}
	if fn == nil {
		return fmt.Errorf("filter %q: nil function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot register filter %q", ErrSealed, name)
	}
	r.logger.Debug("Registering filter.", "name", name)
	r.filters[name] = fn
	return nil
}

// Alias returns the descriptor registered under name.
func (r *Registry) Alias(name string) (descriptor.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.aliases[name]
	return d, ok
}

// Filter returns the filter registered under name.
func (r *Registry) Filter(name string) (FilterFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.filters[name]
	return fn, ok
}

// Seal makes the registry read-only.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// AliasNames returns the registered alias names, sorted.
func (r *Registry) AliasNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.aliases)
}

// FilterNames returns the registered filter names, sorted.
func (r *Registry) FilterNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.filters)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
