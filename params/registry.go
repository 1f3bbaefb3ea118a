// Package params holds the named integer parameters of the control surface.
package params

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned for names that were never added (or deleted).
	ErrNotFound = errors.New("parameter not found")
	// ErrAlreadyExists is returned when adding a name twice.
	ErrAlreadyExists = errors.New("parameter already exists")
)

// Parameter is a value-copy snapshot of one registry entry.
//
// Min and Max describe the intended range only. The registry stores
// whatever value it is given.
type Parameter struct {
	Name  string
	CC    int // outbound controller number, may be shared
	Value int
	Min   int
	Max   int
	Dirty bool // Value changed since the last ConsumeDirty
}

// Registry maps parameter names to their current state. All methods are
// safe for concurrent use; each one is a single critical section.
type Registry struct {
	params map[string]*Parameter
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		params: make(map[string]*Parameter),
	}
}

// Add registers a new, clean parameter. value is not checked against min/max.
func (r *Registry) Add(name string, cc, value, min, max int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.params[name]; exists {
		return fmt.Errorf("%w: %q", ErrAlreadyExists, name)
	}
	r.params[name] = &Parameter{
		Name:  name,
		CC:    cc,
		Value: value,
		Min:   min,
		Max:   max,
	}
	return nil
}

// Set stores value and marks the parameter dirty if it changed.
// Writing the current value again leaves the dirty flag alone.
func (r *Registry) Set(name string, value int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.params[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if p.Value != value {
		p.Value = value
		p.Dirty = true
	}
	return nil
}

// Get returns a copy of the named parameter
func (r *Registry) Get(name string) (Parameter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.params[name]
	if !ok {
		return Parameter{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return *p, nil
}

// Value returns just the current value of the named parameter
func (r *Registry) Value(name string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.params[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p.Value, nil
}

// All returns a frozen copy of every parameter, keyed by name.
// Mutating the registry afterwards does not affect the returned map.
func (r *Registry) All() map[string]Parameter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make(map[string]Parameter, len(r.params))
	for name, p := range r.params {
		snapshot[name] = *p
	}
	return snapshot
}

// ConsumeDirty reports whether the parameter was dirty and clears the flag
// in the same critical section, so each change is observed exactly once.
func (r *Registry) ConsumeDirty(name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.params[name]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	dirty := p.Dirty
	p.Dirty = false
	return dirty, nil
}

// MarkDirty re-arms a parameter without changing its value.
func (r *Registry) MarkDirty(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.params[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	p.Dirty = true
	return nil
}

// Delete removes the named parameter
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.params[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(r.params, name)
	return nil
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.params))
	for name := range r.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered parameters
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.params)
}
