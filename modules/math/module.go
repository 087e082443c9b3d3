// Package math is a builtin module publishing arithmetic functions under
// the name "math".
package math

import (
	stdmath "math"

	"github.com/vk/nsreg/internal/globalenv"
	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Name is the module name.
const Name = "math"

// Module implements registry.Body for this package.
type Module struct{}

// AddFunc returns the sum of one or more numbers.
var AddFunc = function.New(&function.Spec{
	Description: "Returns the sum of all arguments.",
	Params: []function.Parameter{
		{Name: "first", Type: cty.Number},
	},
	VarParam: &function.Parameter{Name: "rest", Type: cty.Number},
	Type:     function.StaticReturnType(cty.Number),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		sum := args[0]
		for _, arg := range args[1:] {
			sum = sum.Add(arg)
		}
		return sum, nil
	},
})

// Name returns the module name.
func (m *Module) Name() string { return Name }

// Load publishes the module's exports.
func (m *Module) Load(env *globalenv.Env) error {
	mod, _, err := registry.FromEnv(env)
	if err != nil {
		return err
	}

	exports := mod.Exports(Name)
	exports.Set("add", AddFunc)
	exports.Set("subtract", stdlib.SubtractFunc)
	exports.Set("multiply", stdlib.MultiplyFunc)
	exports.Set("divide", stdlib.DivideFunc)
	exports.Set("max", stdlib.MaxFunc)
	exports.Set("min", stdlib.MinFunc)
	exports.Set("pi", cty.NumberFloatVal(stdmath.Pi))
	return nil
}
