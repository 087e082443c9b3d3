package registry

import (
	"fmt"

	"github.com/vk/nsreg/internal/globalenv"
)

// Body is a module body written in Go. Load runs the body against a global
// environment on which the registry has been installed; it is expected to
// call Exports with Name() once and may Require modules loaded before it.
type Body interface {
	Name() string
	Load(env *globalenv.Env) error
}

// LoadAll runs bodies in order, stopping at the first failure.
func LoadAll(env *globalenv.Env, bodies ...Body) error {
	for _, b := range bodies {
		if err := b.Load(env); err != nil {
			return &LoadError{Module: b.Name(), Err: err}
		}
	}
	return nil
}

// LoadError reports a module body that failed to run.
type LoadError struct {
	Module string
	Err    error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load module %q: %v", e.Module, e.Err)
}

// Unwrap returns the underlying failure.
func (e *LoadError) Unwrap() error {
	return e.Err
}
