package registry

import (
	"errors"
	"fmt"

	"github.com/vk/nsreg/internal/globalenv"
)

// Names of the global bindings created by Install.
const (
	ModuleBinding  = "module"
	RequireBinding = "require"
)

// RequireFunc is the value bound to `require`.
type RequireFunc func(name string) (*Namespace, error)

// Module is the value bound to `module`. Its id is writable and deletable;
// both operate on the registry's LastCreated value.
type Module struct {
	reg *Registry
}

// Exports is the registry's get-or-create operation.
func (m *Module) Exports(name string) *Namespace {
	ns, _ := m.reg.Exports(name)
	return ns
}

// ID returns the name of the most recently created module.
func (m *Module) ID() string {
	return m.reg.LastCreated()
}

// SetID overwrites the id.
func (m *Module) SetID(id string) {
	m.reg.SetLastCreated(id)
}

// DeleteID resets the id to the empty string.
func (m *Module) DeleteID() {
	m.reg.ClearLastCreated()
}

// Registry returns the registry backing the binding.
func (m *Module) Registry() *Registry {
	return m.reg
}

// Install creates a fresh registry and binds `module` and `require` onto env.
// If either name is already bound, it returns a *DuplicateGlobalBindingError
// naming the collision (`module` is checked first) and changes nothing.
func Install(env *globalenv.Env, opts ...Option) (*Registry, error) {
	for _, name := range []string{ModuleBinding, RequireBinding} {
		if env.Has(name) {
			return nil, &DuplicateGlobalBindingError{Binding: name}
		}
	}

	reg := New(opts...)
	err := env.DefineAll(
		globalenv.Binding{Name: ModuleBinding, Value: &Module{reg: reg}},
		globalenv.Binding{Name: RequireBinding, Value: RequireFunc(reg.Require)},
	)
	if err != nil {
		// Lost a race with another writer between the check and the define.
		var defErr *globalenv.AlreadyDefinedError
		if errors.As(err, &defErr) {
			return nil, &DuplicateGlobalBindingError{Binding: defErr.Name}
		}
		return nil, fmt.Errorf("failed to install module registry: %w", err)
	}

	reg.logger.Debug("Module registry installed.", "bindings", []string{ModuleBinding, RequireBinding})
	return reg, nil
}

// FromEnv returns the entry points Install bound onto env.
func FromEnv(env *globalenv.Env) (*Module, RequireFunc, error) {
	rawModule, ok := env.Get(ModuleBinding)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q is not bound", ErrNotInstalled, ModuleBinding)
	}
	mod, ok := rawModule.(*Module)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q is bound to %T", ErrNotInstalled, ModuleBinding, rawModule)
	}

	rawRequire, ok := env.Get(RequireBinding)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q is not bound", ErrNotInstalled, RequireBinding)
	}
	req, ok := rawRequire.(RequireFunc)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q is bound to %T", ErrNotInstalled, RequireBinding, rawRequire)
	}

	return mod, req, nil
}
