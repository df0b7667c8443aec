package render

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrUnknownRenderer is returned by Registry.Get for unregistered names.
	ErrUnknownRenderer = errors.New("render: unknown renderer")
	// ErrRendererExists is returned when two renderers share a name.
	ErrRendererExists = errors.New("render: renderer already registered")
)

// Registry maps renderer names (bootstrap, templated, prompt) to
// implementations. The first registered renderer answers Get("").
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Renderer
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: map[string]Renderer{}}
}

// Register adds renderer under its Name.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: register: nil renderer")
	}
	name := strings.TrimSpace(renderer.Name())
	if name == "" {
		return errors.New("render: register: renderer has no name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byKey[name]; dup {
		return fmt.Errorf("%w: %q", ErrRendererExists, name)
	}
	r.byKey[name] = renderer
	r.order = append(r.order, name)
	return nil
}

// Get returns the renderer registered as name, or the default one when name
// is empty.
func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	name = strings.TrimSpace(name)
	if name == "" && len(r.order) > 0 {
		name = r.order[0]
	}
	if renderer, ok := r.byKey[name]; ok {
		return renderer, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byKey[name]
	return ok
}

// List returns the registered names in alphabetical order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := slices.Clone(r.order)
	slices.Sort(names)
	return names
}
