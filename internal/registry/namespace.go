package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Namespace is the exports object of a single module: an open, mutable set
// of named values. The registry owns the reference; the module body that
// obtained it owns the contents.
type Namespace struct {
	name string

	mu     sync.RWMutex
	values map[string]any
}

func newNamespace(name string) *Namespace {
	return &Namespace{
		name:   name,
		values: make(map[string]any),
	}
}

// Name returns the module name the namespace is registered under.
func (ns *Namespace) Name() string {
	return ns.name
}

// Set publishes value under key, replacing any previous value.
func (ns *Namespace) Set(key string, value any) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.values[key] = value
}

// Get returns the value published under key.
func (ns *Namespace) Get(key string) (any, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.values[key]
	return v, ok
}

// Has reports whether key is published.
func (ns *Namespace) Has(key string) bool {
	_, ok := ns.Get(key)
	return ok
}

// Delete removes key from the namespace.
func (ns *Namespace) Delete(key string) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	delete(ns.values, key)
}

// Keys returns the published keys in sorted order.
func (ns *Namespace) Keys() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()

	keys := make([]string, 0, len(ns.values))
	for k := range ns.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of published values.
func (ns *Namespace) Len() int {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	return len(ns.values)
}

// Range calls fn for every published value in key order until fn returns
// false. fn runs on a copy, so it may mutate the namespace.
func (ns *Namespace) Range(fn func(key string, value any) bool) {
	ns.mu.RLock()
	snapshot := make(map[string]any, len(ns.values))
	for k, v := range ns.values {
		snapshot[k] = v
	}
	ns.mu.RUnlock()

	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if !fn(k, snapshot[k]) {
			return
		}
	}
}

// Lookup reads key from ns as a T.
func Lookup[T any](ns *Namespace, key string) (T, error) {
	var zero T
	raw, ok := ns.Get(key)
	if !ok {
		return zero, &ExportError{Module: ns.Name(), Key: key, Reason: "not exported"}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, &ExportError{Module: ns.Name(), Key: key, Reason: fmt.Sprintf("has type %T, want %T", raw, zero)}
	}
	return v, nil
}
