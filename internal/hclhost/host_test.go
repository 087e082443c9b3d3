package hclhost

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nsreg/internal/globalenv"
	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// setupHost installs a registry with a small Go "math" module already loaded.
func setupHost(t *testing.T) (*Host, *registry.Registry) {
	t.Helper()
	env := globalenv.New()
	reg, err := registry.Install(env)
	require.NoError(t, err)

	math, _ := reg.Exports("math")
	math.Set("add", stdlib.AddFunc)
	math.Set("pi", cty.NumberFloatVal(3.25))

	h, err := New(env)
	require.NoError(t, err)
	return h, reg
}

func exportOf(t *testing.T, reg *registry.Registry, module, key string) cty.Value {
	t.Helper()
	ns, err := reg.Require(module)
	require.NoError(t, err)
	v, err := registry.Lookup[cty.Value](ns, key)
	require.NoError(t, err)
	return v
}

func TestLoadSource_PublishesExports(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)

	// --- Arrange ---
	src := `
module "greeting" {
  name    = "world"
  message = "hello ${exports.name}"
  sum     = call("math", "add", 1, 2)
  pi      = require("math").pi
  id      = module.id
}
`
	// --- Act ---
	err := h.LoadSource(context.Background(), "greeting.hcl", []byte(src))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("hello world"), exportOf(t, reg, "greeting", "message"))
	assert.True(t, exportOf(t, reg, "greeting", "sum").Equals(cty.NumberIntVal(3)).True())
	assert.True(t, exportOf(t, reg, "greeting", "pi").Equals(cty.NumberFloatVal(3.25)).True())
	assert.Equal(t, cty.StringVal("greeting"), exportOf(t, reg, "greeting", "id"))
	assert.Equal(t, "greeting", reg.LastCreated())
}

func TestLoadSource_UnknownModule(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)

	src := `
module "consumer" {
  value = require("producer").value
}
`
	err := h.LoadSource(context.Background(), "consumer.hcl", []byte(src))

	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrUnknownModule))
	assert.True(t, IsEvalError(err))
	var loadErr *registry.LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "consumer", loadErr.Module)
	assert.Contains(t, err.Error(), `unknown module "producer"`)

	// The namespace was created before the failing attribute ran.
	assert.True(t, reg.Has("consumer"))
	assert.False(t, reg.Has("producer"))
}

func TestLoadSource_ReentrantRequireSeesPartialExports(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)

	src := `
module "self" {
  first  = 1
  second = require("self").first + 1
}
`
	require.NoError(t, h.LoadSource(context.Background(), "self.hcl", []byte(src)))

	assert.True(t, exportOf(t, reg, "self", "second").Equals(cty.NumberIntVal(2)).True())
}

func TestLoadSource_MultipleBlocksRunInOrder(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)

	src := `
module "a" {
  value = 10
}

module "b" {
  value = call("math", "add", require("a").value, 5)
}
`
	require.NoError(t, h.LoadSource(context.Background(), "ab.hcl", []byte(src)))

	assert.True(t, exportOf(t, reg, "b", "value").Equals(cty.NumberIntVal(15)).True())
	assert.Equal(t, "b", reg.LastCreated())
}

func TestLoadSource_RepeatedBlockExtendsNamespace(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)

	src := `
module "cfg" {
  host = "localhost"
}

module "other" {
  x = 1
}

module "cfg" {
  port = 8080
}
`
	require.NoError(t, h.LoadSource(context.Background(), "cfg.hcl", []byte(src)))

	ns, err := reg.Require("cfg")
	require.NoError(t, err)
	assert.Equal(t, []string{"host", "port"}, ns.Keys())
	assert.Equal(t, "other", reg.LastCreated(), "the second cfg block only fetches the namespace")
}

func TestLoadSource_SameFilenameParsesNewSource(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	h, reg := setupHost(t)
	ctx := context.Background()
	require.NoError(t, h.LoadSource(ctx, "snippet.hcl", []byte(`module "a" { x = 1 }`)))

	// --- Act ---
	err := h.LoadSource(ctx, "snippet.hcl", []byte(`module "b" { y = 2 }`))

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "math"}, reg.Names())
	assert.True(t, exportOf(t, reg, "b", "y").Equals(cty.NumberIntVal(2)).True())
	assert.Equal(t, "b", reg.LastCreated())
}

func TestLoadFiles_RereadsChangedFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	h, reg := setupHost(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`module "first" { n = 1 }`), 0600))
	require.NoError(t, h.LoadFiles(ctx, path))
	require.NoError(t, os.WriteFile(path, []byte(`module "second" { n = 2 }`), 0600))

	// --- Act ---
	err := h.LoadFiles(ctx, path)

	// --- Assert ---
	require.NoError(t, err)
	assert.True(t, reg.Has("second"))
	assert.True(t, exportOf(t, reg, "second", "n").Equals(cty.NumberIntVal(2)).True())
}

func TestLoadSource_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		src       string
		expectErr string
	}{
		{
			name:      "syntax error",
			src:       `module "broken" {`,
			expectErr: "failed to parse HCL source",
		},
		{
			name:      "missing label",
			src:       `module { x = 1 }`,
			expectErr: "failed to decode HCL file",
		},
		{
			name:      "nested block",
			src:       "module \"m\" {\n  inner {\n  }\n}\n",
			expectErr: `failed to load module "m"`,
		},
		{
			name:      "call of a non-function export",
			src:       `module "m" { x = call("math", "pi") }`,
			expectErr: `export "pi": has type cty.Value`,
		},
		{
			name:      "call of a missing function",
			src:       `module "m" { x = call("math", "sqrt", 4) }`,
			expectErr: `export "sqrt": not exported`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h, _ := setupHost(t)

			err := h.LoadSource(context.Background(), tc.name+".hcl", []byte(tc.src))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestLoadFiles_LexicalOrder(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)

	dir := t.TempDir()
	files := map[string]string{
		"10_base.hcl":           `module "base" { greeting = "hi" }`,
		"20_derived.hcl":        `module "derived" { greeting = "${require("base").greeting}!" }`,
		"nested/30_uses.hcl":    `module "uses" { text = "${require("base").greeting} there" }`,
		"notes.txt":             "not a module file",
		"20_derived.hcl.backup": "ignored",
	}
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}

	require.NoError(t, h.LoadFiles(context.Background(), dir))

	assert.Equal(t, cty.StringVal("hi!"), exportOf(t, reg, "derived", "greeting"))
	assert.Equal(t, cty.StringVal("hi there"), exportOf(t, reg, "uses", "text"))
	assert.Equal(t, "uses", reg.LastCreated())
}

func TestLoadFiles_DependentFirstFails(t *testing.T) {
	t.Parallel()
	h, _ := setupHost(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.hcl"), []byte(`module "a" { v = require("b").v }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.hcl"), []byte(`module "b" { v = 1 }`), 0644))

	err := h.LoadFiles(context.Background(), dir)

	require.ErrorIs(t, err, registry.ErrUnknownModule)
	assert.Contains(t, err.Error(), "a.hcl")
}

func TestLoadFiles_EmptyDirectory(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)

	require.NoError(t, h.LoadFiles(context.Background(), t.TempDir()))
	assert.Equal(t, []string{"math"}, reg.Names())
}

func TestEval(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)
	ns, _ := reg.Exports("increment")
	ns.Set("step", cty.NumberIntVal(1))

	testCases := []struct {
		name   string
		expr   string
		expect cty.Value
	}{
		{name: "call", expr: `call("math", "add", 1, 2)`, expect: cty.NumberIntVal(3)},
		{name: "require attribute", expr: `require("increment").step`, expect: cty.NumberIntVal(1)},
		{name: "module id", expr: `module.id`, expect: cty.StringVal("increment")},
		{name: "literal", expr: `"plain"`, expect: cty.StringVal("plain")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := h.Eval(context.Background(), tc.expr)
			require.NoError(t, err)
			assert.True(t, tc.expect.Equals(got).True(), "expected %#v, got %#v", tc.expect, got)
		})
	}
}

func TestEval_Errors(t *testing.T) {
	t.Parallel()
	h, reg := setupHost(t)

	_, err := h.Eval(context.Background(), `require("nope")`)
	require.ErrorIs(t, err, registry.ErrUnknownModule)
	assert.False(t, reg.Has("nope"), "a failed require never creates an entry")

	_, err = h.Eval(context.Background(), `call("math", `)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse expression")

	_, err = h.Eval(context.Background(), `exports.x`)
	require.Error(t, err, "exports is only defined inside module blocks")
}

func TestNew_RequiresInstalledRegistry(t *testing.T) {
	t.Parallel()
	_, err := New(globalenv.New())
	assert.ErrorIs(t, err, registry.ErrNotInstalled)
}
