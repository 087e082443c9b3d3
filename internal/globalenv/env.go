package globalenv

import (
	"fmt"
	"sort"
	"sync"
)

// Binding is a single name/value pair to be defined on an Env.
type Binding struct {
	Name  string
	Value any
}

// AlreadyDefinedError is returned by DefineAll when a name is already bound.
type AlreadyDefinedError struct {
	Name string
}

// Error implements the error interface.
func (e *AlreadyDefinedError) Error() string {
	return fmt.Sprintf("global binding %q is already defined", e.Name)
}

// Env is a thread-safe set of global bindings.
type Env struct {
	mu       sync.RWMutex
	bindings map[string]any
}

// New creates a new, empty global environment.
func New() *Env {
	return &Env{
		bindings: make(map[string]any),
	}
}

// Has reports whether name is bound.
func (e *Env) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	_, ok := e.bindings[name]
	return ok
}

// Get returns the value bound to name.
func (e *Env) Get(name string) (any, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v, ok := e.bindings[name]
	return v, ok
}

// Set binds name to value, replacing any previous binding.
func (e *Env) Set(name string, value any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.bindings[name] = value
}

// Delete removes the binding for name. Deleting an unbound name is a no-op.
func (e *Env) Delete(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	delete(e.bindings, name)
}

// Names returns all bound names in sorted order.
func (e *Env) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.bindings))
	for name := range e.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefineAll binds every given name in a single step. If any name is already
// bound, it returns an *AlreadyDefinedError for the first collision in
// argument order and leaves the environment unchanged.
func (e *Env) DefineAll(bindings ...Binding) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, b := range bindings {
		if _, exists := e.bindings[b.Name]; exists {
			return &AlreadyDefinedError{Name: b.Name}
		}
	}
	for _, b := range bindings {
		e.bindings[b.Name] = b.Value
	}
	return nil
}
