// Package strings is a builtin module publishing string helpers under the
// name "strings".
package strings

import (
	"github.com/vk/nsreg/internal/globalenv"
	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Name is the module name.
const Name = "strings"

// Module implements registry.Body for this package.
type Module struct{}

// Name returns the module name.
func (m *Module) Name() string { return Name }

// Load publishes the module's exports.
func (m *Module) Load(env *globalenv.Env) error {
	mod, _, err := registry.FromEnv(env)
	if err != nil {
		return err
	}

	exports := mod.Exports(Name)
	exports.Set("upper", stdlib.UpperFunc)
	exports.Set("lower", stdlib.LowerFunc)
	exports.Set("join", stdlib.JoinFunc)
	exports.Set("format", stdlib.FormatFunc)
	exports.Set("trim", stdlib.TrimSpaceFunc)
	return nil
}
