package registry

import (
	"log/slog"
	"sort"
	"sync"
)

// Option configures a Registry.
type Option func(*Registry)

// WithObserver attaches an Observer that is notified of every operation.
func WithObserver(o Observer) Option {
	return func(r *Registry) {
		if o != nil {
			r.observer = o
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry holds the namespaces of every module created through Exports.
// Entries are never removed.
type Registry struct {
	mu          sync.RWMutex
	entries     map[string]*Namespace
	lastCreated string

	observer Observer
	logger   *slog.Logger
}

// New creates a new, empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		entries:  make(map[string]*Namespace),
		observer: nopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Require returns the live namespace published under name. It never creates
// an entry; an unknown name yields an *UnknownModuleError.
func (r *Registry) Require(name string) (*Namespace, error) {
	r.mu.RLock()
	ns, ok := r.entries[name]
	r.mu.RUnlock()

	r.observer.ModuleRequired(name, ok)
	if !ok {
		r.logger.Debug("Require of unknown module.", "module", name)
		return nil, &UnknownModuleError{Name: name}
	}
	return ns, nil
}

// Exports returns the namespace for name, creating an empty one if none
// exists. created reports whether this call created it; only a creating
// call updates LastCreated.
func (r *Registry) Exports(name string) (ns *Namespace, created bool) {
	r.mu.Lock()
	ns, ok := r.entries[name]
	if !ok {
		ns = newNamespace(name)
		r.entries[name] = ns
		r.lastCreated = name
	}
	r.mu.Unlock()

	if ok {
		r.observer.ModuleFetched(name)
		return ns, false
	}
	r.logger.Debug("Module namespace created.", "module", name)
	r.observer.ModuleCreated(name)
	return ns, true
}

// LastCreated returns the name passed to the most recent creating Exports
// call, or whatever was last written with SetLastCreated.
func (r *Registry) LastCreated() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastCreated
}

// SetLastCreated overwrites the value reported by LastCreated.
func (r *Registry) SetLastCreated(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastCreated = name
}

// ClearLastCreated resets LastCreated to the empty string.
func (r *Registry) ClearLastCreated() {
	r.SetLastCreated("")
}

// Has reports whether a namespace exists for name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Names returns the names of all namespaces in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of namespaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
