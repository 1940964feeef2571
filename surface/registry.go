// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"sort"
	"sync"
)

// Factory creates a Surface with the given options.
type Factory func(opts Options) (Surface, error)

// RegistryEntry is a registered surface backend.
type RegistryEntry struct {
	// Name is the unique identifier for this backend.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU presentation backends
	//   - 10: pure software backends
	Priority int

	// Factory creates surface instances.
	Factory Factory

	// Available reports if the backend can run on this system.
	Available func() bool
}

// Registry manages surface backends. Alternative presentation paths
// register themselves without the core depending on them.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// globalRegistry is the default registry; the software backend
// registers into it on package init.
var globalRegistry = &Registry{}

// Register adds a backend to the global registry. A nil available
// function means always available. Registering an existing name
// replaces the previous entry.
func Register(name string, priority int, factory Factory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a backend from the global registry.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Backends returns all available backend names, highest priority first.
func Backends() []string {
	return globalRegistry.Backends()
}

// New creates a surface using the best available backend.
func New(width, height int) (Surface, error) {
	return globalRegistry.New(Options{Width: width, Height: height})
}

// NewByName creates a surface using a specific named backend.
func NewByName(name string, width, height int) (Surface, error) {
	return globalRegistry.NewByName(name, Options{Width: width, Height: height})
}

// Register adds a backend to this registry.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}
	if available == nil {
		available = func() bool { return true }
	}
	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a backend from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
}

// Backends returns available backend names, highest priority first.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name, e := range r.entries {
		if e.Available() {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := r.entries[names[i]], r.entries[names[j]]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.Name < b.Name
	})
	return names
}

// New creates a surface from the highest-priority available backend,
// falling back down the priority order if a factory fails.
func (r *Registry) New(opts Options) (Surface, error) {
	var lastErr error
	for _, name := range r.Backends() {
		s, err := r.NewByName(name, opts)
		if err == nil {
			return s, nil
		}
		lastErr = err
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoBackend
}

// NewByName creates a surface from a specific backend.
func (r *Registry) NewByName(name string, opts Options) (Surface, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
	if !entry.Available() {
		return nil, fmt.Errorf("%w: %q is not available", ErrNoBackend, name)
	}
	return entry.Factory(opts)
}
