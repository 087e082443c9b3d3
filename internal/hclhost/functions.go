package hclhost

import (
	"github.com/vk/nsreg/internal/ctyconv"
	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// requireFunc exposes Require to HCL. The result is an object snapshot of
// the namespace's non-function exports.
func (h *Host) requireFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Returns the exports of a module as an object.",
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			ns, err := h.require(args[0].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			return ctyconv.Namespace(ns), nil
		},
	})
}

// callFunc invokes a function exported by a module:
// call("math", "add", 1, 2).
func (h *Host) callFunc() function.Function {
	return function.New(&function.Spec{
		Description: "Calls a function exported by a module.",
		Params: []function.Parameter{
			{Name: "module", Type: cty.String},
			{Name: "function", Type: cty.String},
		},
		VarParam: &function.Parameter{
			Name:             "args",
			Type:             cty.DynamicPseudoType,
			AllowNull:        true,
			AllowDynamicType: true,
		},
		Type: func(args []cty.Value) (cty.Type, error) {
			if !args[0].IsKnown() || !args[1].IsKnown() {
				return cty.DynamicPseudoType, nil
			}
			fn, err := h.exportedFunction(args[0].AsString(), args[1].AsString())
			if err != nil {
				return cty.NilType, err
			}
			return fn.ReturnTypeForValues(args[2:])
		},
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			fn, err := h.exportedFunction(args[0].AsString(), args[1].AsString())
			if err != nil {
				return cty.NilVal, err
			}
			return fn.Call(args[2:])
		},
	})
}

func (h *Host) exportedFunction(module, name string) (function.Function, error) {
	ns, err := h.require(module)
	if err != nil {
		return function.Function{}, err
	}
	return registry.Lookup[function.Function](ns, name)
}
