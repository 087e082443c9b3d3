package registry

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownModule matches every *UnknownModuleError.
	ErrUnknownModule = errors.New("unknown module")
	// ErrDuplicateGlobalBinding matches every *DuplicateGlobalBindingError.
	ErrDuplicateGlobalBinding = errors.New("duplicate global binding")
	// ErrNotInstalled is returned by FromEnv when the registry bindings are
	// missing from a global environment or have an unexpected type.
	ErrNotInstalled = errors.New("module registry is not installed")
)

// UnknownModuleError is returned by Require when no namespace exists for Name.
type UnknownModuleError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownModuleError) Error() string {
	return fmt.Sprintf("unknown module %q", e.Name)
}

// Is reports whether target is ErrUnknownModule.
func (e *UnknownModuleError) Is(target error) bool {
	return target == ErrUnknownModule
}

// DuplicateGlobalBindingError is returned by Install when the target
// environment already binds one of the registry's entry point names.
type DuplicateGlobalBindingError struct {
	Binding string
}

// Error implements the error interface.
func (e *DuplicateGlobalBindingError) Error() string {
	return fmt.Sprintf("%q is already defined; remove or rename the existing global binding before installing the module registry", e.Binding)
}

// Is reports whether target is ErrDuplicateGlobalBinding.
func (e *DuplicateGlobalBindingError) Is(target error) bool {
	return target == ErrDuplicateGlobalBinding
}

// ExportError describes a failed typed read of a namespace value.
type ExportError struct {
	Module string
	Key    string
	Reason string
}

// Error implements the error interface.
func (e *ExportError) Error() string {
	return fmt.Sprintf("module %q export %q: %s", e.Module, e.Key, e.Reason)
}
