// Package increment is a builtin module built on top of "math": it
// publishes increment(n) = math.add(n, 1).
package increment

import (
	"fmt"

	"github.com/vk/nsreg/internal/globalenv"
	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Name is the module name.
const Name = "increment"

// Module implements registry.Body for this package. It must be loaded after
// the math module.
type Module struct{}

// Name returns the module name.
func (m *Module) Name() string { return Name }

// Load publishes the module's exports.
func (m *Module) Load(env *globalenv.Env) error {
	mod, require, err := registry.FromEnv(env)
	if err != nil {
		return err
	}

	exports := mod.Exports(Name)

	math, err := require("math")
	if err != nil {
		return err
	}
	add, err := registry.Lookup[function.Function](math, "add")
	if err != nil {
		return fmt.Errorf("math module does not provide add: %w", err)
	}

	exports.Set("increment", function.New(&function.Spec{
		Description: "Returns its argument plus one.",
		Params: []function.Parameter{
			{Name: "value", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return add.Call([]cty.Value{args[0], cty.NumberIntVal(1)})
		},
	}))
	return nil
}
