package governor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kbukum/harvest/errors"
)

// Registry holds named governors shared for a whole run, typically one per
// sub-pipeline policy.
type Registry struct {
	mu        sync.RWMutex
	governors map[string]Governor
}

// NewRegistry builds one governor per entry. Each governor is named after its
// key. opts apply to every governor.
func NewRegistry(configs map[string]Config, opts ...Option) (*Registry, error) {
	r := &Registry{governors: make(map[string]Governor, len(configs))}

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		g, err := New(configs[name], append(opts[:len(opts):len(opts)], WithName(name))...)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				appErr.Message = fmt.Sprintf("governors.%s: %s", name, appErr.Message)
				return nil, appErr.WithDetail("governor", name)
			}
			return nil, fmt.Errorf("governor %q: %w", name, err)
		}
		r.governors[name] = g
	}
	return r, nil
}

// Register adds or replaces a governor.
func (r *Registry) Register(name string, g Governor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.governors[name] = g
}

// Get returns the named governor.
func (r *Registry) Get(name string) (Governor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.governors[name]
	return g, ok
}

// MustGet returns the named governor and panics if it is missing.
func (r *Registry) MustGet(name string) Governor {
	g, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("governor: %q is not registered", name))
	}
	return g
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.governors))
	for name := range r.governors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
