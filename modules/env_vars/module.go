// Package env_vars is a builtin module publishing the process environment
// under the name "env".
package env_vars

import (
	"os"
	"strings"

	"github.com/vk/nsreg/internal/globalenv"
	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Name is the module name.
const Name = "env"

// DefaultPrefix selects the variables published in "all" when Module.Prefix
// is empty.
const DefaultPrefix = "NSREG_VAR_"

// Module implements registry.Body for this package.
type Module struct {
	// Prefix selects which variables are published in "all". The prefix is
	// stripped from the published keys.
	Prefix string
}

// GetFunc returns the value of an environment variable, or the fallback
// when it is unset.
var GetFunc = function.New(&function.Spec{
	Description: "Returns the named environment variable, or fallback when it is unset.",
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
		{Name: "fallback", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		if v, ok := os.LookupEnv(args[0].AsString()); ok {
			return cty.StringVal(v), nil
		}
		return args[1], nil
	},
})

// Name returns the module name.
func (m *Module) Name() string { return Name }

// Load publishes a snapshot of the prefixed variables as "all" and the "get"
// function for live lookups of any variable.
func (m *Module) Load(env *globalenv.Env) error {
	mod, _, err := registry.FromEnv(env)
	if err != nil {
		return err
	}

	exports := mod.Exports(Name)
	prefix := m.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	exports.Set("all", environ(prefix))
	exports.Set("get", GetFunc)
	return nil
}

func environ(prefix string) cty.Value {
	vars := make(map[string]cty.Value)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) != 2 {
			continue
		}
		key, ok := strings.CutPrefix(pair[0], prefix)
		if ok && key != "" {
			vars[key] = cty.StringVal(pair[1])
		}
	}
	if len(vars) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	return cty.MapVal(vars)
}
