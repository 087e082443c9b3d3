package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nsreg/internal/globalenv"
	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

func TestModule_Load(t *testing.T) {
	t.Parallel()
	env := globalenv.New()
	reg, err := registry.Install(env)
	require.NoError(t, err)

	require.NoError(t, (&Module{}).Load(env))

	ns, err := reg.Require(Name)
	require.NoError(t, err)
	assert.Equal(t, []string{"add", "divide", "max", "min", "multiply", "pi", "subtract"}, ns.Keys())
	assert.Equal(t, Name, reg.LastCreated())
}

func TestAddFunc(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		args   []cty.Value
		expect int64
	}{
		{name: "single", args: []cty.Value{cty.NumberIntVal(4)}, expect: 4},
		{name: "pair", args: []cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)}, expect: 3},
		{name: "variadic", args: []cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2), cty.NumberIntVal(3), cty.NumberIntVal(4)}, expect: 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := AddFunc.Call(tc.args)
			require.NoError(t, err)
			assert.True(t, got.Equals(cty.NumberIntVal(tc.expect)).True(), "got %#v", got)
		})
	}
}

func TestModule_PublishedAddIsCallable(t *testing.T) {
	t.Parallel()
	env := globalenv.New()
	reg, err := registry.Install(env)
	require.NoError(t, err)
	require.NoError(t, (&Module{}).Load(env))

	ns, err := reg.Require(Name)
	require.NoError(t, err)
	add, err := registry.Lookup[function.Function](ns, "add")
	require.NoError(t, err)

	got, err := add.Call([]cty.Value{cty.NumberIntVal(1), cty.NumberIntVal(2)})
	require.NoError(t, err)
	assert.True(t, got.Equals(cty.NumberIntVal(3)).True())
}

func TestModule_LoadWithoutRegistry(t *testing.T) {
	t.Parallel()
	err := (&Module{}).Load(globalenv.New())
	assert.ErrorIs(t, err, registry.ErrNotInstalled)
}
