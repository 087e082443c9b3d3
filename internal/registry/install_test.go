package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nsreg/internal/globalenv"
)

func TestInstall_BindsEntryPoints(t *testing.T) {
	t.Parallel()
	env := globalenv.New()

	reg, err := Install(env)
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, 0, reg.Len())
	assert.Equal(t, []string{ModuleBinding, RequireBinding}, env.Names())

	mod, req, err := FromEnv(env)
	require.NoError(t, err)
	assert.Same(t, reg, mod.Registry())

	h1 := mod.Exports("math")
	h1.Set("add", func(a, b float64) float64 { return a + b })

	ns, err := req("math")
	require.NoError(t, err)
	assert.Same(t, h1, ns)

	add, err := Lookup[func(float64, float64) float64](ns, "add")
	require.NoError(t, err)
	assert.Equal(t, 3.0, add(1, 2))
}

func TestInstall_DuplicateGlobalBinding(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		existing      map[string]any
		expectBinding string
	}{
		{
			name:          "require already bound",
			existing:      map[string]any{"require": "someone else's require"},
			expectBinding: "require",
		},
		{
			name:          "module already bound",
			existing:      map[string]any{"module": 7},
			expectBinding: "module",
		},
		{
			name:          "both bound reports module first",
			existing:      map[string]any{"module": 7, "require": "x"},
			expectBinding: "module",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := globalenv.New()
			for k, v := range tc.existing {
				env.Set(k, v)
			}

			reg, err := Install(env)

			require.Error(t, err)
			assert.Nil(t, reg)
			assert.True(t, errors.Is(err, ErrDuplicateGlobalBinding))
			var dupErr *DuplicateGlobalBindingError
			require.True(t, errors.As(err, &dupErr))
			assert.Equal(t, tc.expectBinding, dupErr.Binding)

			assert.Len(t, env.Names(), len(tc.existing))
			for k, v := range tc.existing {
				got, ok := env.Get(k)
				require.True(t, ok)
				assert.Equal(t, v, got, "pre-existing binding %q must be untouched", k)
			}
		})
	}
}

func TestInstall_SecondCallFails(t *testing.T) {
	t.Parallel()
	env := globalenv.New()

	first, err := Install(env)
	require.NoError(t, err)
	firstModule, _ := env.Get(ModuleBinding)

	_, err = Install(env)
	require.ErrorIs(t, err, ErrDuplicateGlobalBinding)

	again, _ := env.Get(ModuleBinding)
	assert.Same(t, firstModule, again)
	assert.Same(t, first, again.(*Module).Registry())
}

func TestInstall_IndependentRegistries(t *testing.T) {
	t.Parallel()
	envA, envB := globalenv.New(), globalenv.New()

	regA, err := Install(envA)
	require.NoError(t, err)
	regB, err := Install(envB)
	require.NoError(t, err)

	regA.Exports("only-in-a")

	assert.True(t, regA.Has("only-in-a"))
	assert.False(t, regB.Has("only-in-a"))
}

func TestModule_ID(t *testing.T) {
	t.Parallel()
	env := globalenv.New()
	_, err := Install(env)
	require.NoError(t, err)
	mod, _, err := FromEnv(env)
	require.NoError(t, err)

	assert.Equal(t, "", mod.ID())

	mod.Exports("math")
	mod.Exports("increment")
	mod.Exports("math")
	assert.Equal(t, "increment", mod.ID())

	mod.SetID("overridden")
	assert.Equal(t, "overridden", mod.ID())

	mod.DeleteID()
	assert.Equal(t, "", mod.ID())
}

func TestFromEnv_NotInstalled(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		bindings map[string]any
	}{
		{name: "empty environment"},
		{name: "module has wrong type", bindings: map[string]any{"module": "x", "require": RequireFunc(nil)}},
		{name: "require missing", bindings: map[string]any{"module": &Module{reg: New()}}},
		{name: "require has wrong type", bindings: map[string]any{"module": &Module{reg: New()}, "require": 1}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			env := globalenv.New()
			for k, v := range tc.bindings {
				env.Set(k, v)
			}

			_, _, err := FromEnv(env)
			assert.ErrorIs(t, err, ErrNotInstalled)
		})
	}
}
