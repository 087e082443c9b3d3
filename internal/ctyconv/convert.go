// Package ctyconv converts namespace contents into cty values so they can be
// used from HCL expressions and encoded as JSON.
package ctyconv

import (
	"errors"
	"fmt"

	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrFunction is returned when a function is converted as a value.
var ErrFunction = errors.New("functions have no value representation")

// ToCtyValue converts a native Go value into its corresponding cty.Value.
// cty values pass through unchanged; map[string]any and []any become
// objects and tuples; namespaces become objects of their exports.
func ToCtyValue(v any) (cty.Value, error) {
	return toCty(v, map[*registry.Namespace]struct{}{})
}

// Namespace returns an object holding every value exported by ns that has a
// cty representation. Functions and unconvertible values are omitted.
func Namespace(ns *registry.Namespace) cty.Value {
	return namespaceValue(ns, map[*registry.Namespace]struct{}{})
}

// Functions returns the cty functions exported by ns, keyed by export name.
func Functions(ns *registry.Namespace) map[string]function.Function {
	fns := make(map[string]function.Function)
	ns.Range(func(key string, value any) bool {
		if fn, ok := value.(function.Function); ok {
			fns[key] = fn
		}
		return true
	})
	return fns
}

func namespaceValue(ns *registry.Namespace, visiting map[*registry.Namespace]struct{}) cty.Value {
	if _, ok := visiting[ns]; ok {
		// Namespaces that reference each other are cut at the revisit.
		return cty.NullVal(cty.DynamicPseudoType)
	}
	visiting[ns] = struct{}{}
	defer delete(visiting, ns)

	attrs := make(map[string]cty.Value)
	ns.Range(func(key string, value any) bool {
		v, err := toCty(value, visiting)
		if err == nil {
			attrs[key] = v
		}
		return true
	})
	if len(attrs) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(attrs)
}

func toCty(v any, visiting map[*registry.Namespace]struct{}) (cty.Value, error) {
	switch tv := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case cty.Value:
		return tv, nil
	case function.Function:
		return cty.NilVal, ErrFunction
	case *registry.Namespace:
		return namespaceValue(tv, visiting), nil
	case map[string]any:
		if len(tv) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(tv))
		for k, elem := range tv {
			ev, err := toCty(elem, visiting)
			if err != nil {
				return cty.NilVal, fmt.Errorf("attribute %q: %w", k, err)
			}
			attrs[k] = ev
		}
		return cty.ObjectVal(attrs), nil
	case []any:
		if len(tv) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, len(tv))
		for i, elem := range tv {
			ev, err := toCty(elem, visiting)
			if err != nil {
				return cty.NilVal, fmt.Errorf("element %d: %w", i, err)
			}
			elems[i] = ev
		}
		return cty.TupleVal(elems), nil
	}

	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return cty.NilVal, fmt.Errorf("unable to infer cty.Type for %T: %w", v, err)
	}
	return gocty.ToCtyValue(v, ty)
}
