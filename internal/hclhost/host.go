package hclhost

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/nsreg/internal/ctxlog"
	"github.com/vk/nsreg/internal/ctyconv"
	"github.com/vk/nsreg/internal/fsutil"
	"github.com/vk/nsreg/internal/globalenv"
	"github.com/vk/nsreg/internal/registry"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// FileExtension is the extension of module files picked up from directories.
const FileExtension = ".hcl"

// fileRoot decodes all top-level blocks of a module file.
type fileRoot struct {
	Modules []*moduleBlock `hcl:"module,block"`
	Remain  hcl.Body       `hcl:",remain"`
}

type moduleBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

// Host runs HCL module bodies and expressions against the registry bound on
// a global environment.
type Host struct {
	module  *registry.Module
	require registry.RequireFunc
}

// New creates a Host for env. The registry must already be installed.
func New(env *globalenv.Env) (*Host, error) {
	mod, req, err := registry.FromEnv(env)
	if err != nil {
		return nil, err
	}
	return &Host{
		module:  mod,
		require: req,
	}, nil
}

// LoadFiles runs every module file found under paths. Directories are
// searched recursively for FileExtension files in lexical order.
func (h *Host) LoadFiles(ctx context.Context, paths ...string) error {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.ExpandPaths(paths, FileExtension)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		logger.Warn("No module files found.", "paths", paths)
		return nil
	}
	logger.Debug("Discovered module files.", "count", len(files))

	// hclparse caches by filename, so each call gets its own parser.
	parser := hclparse.NewParser()
	for _, path := range files {
		file, diags := parser.ParseHCLFile(path)
		if diags.HasErrors() {
			return fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
		}
		if err := h.runFile(ctx, path, file); err != nil {
			return err
		}
	}
	return nil
}

// LoadSource runs the module blocks contained in src.
func (h *Host) LoadSource(ctx context.Context, filename string, src []byte) error {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	return h.runFile(ctx, filename, file)
}

// Eval evaluates a standalone expression, such as `call("increment",
// "increment", 1)`, against the registry.
func (h *Host) Eval(ctx context.Context, src string) (cty.Value, error) {
	logger := ctxlog.FromContext(ctx)

	expr, diags := hclsyntax.ParseExpression([]byte(src), "<expr>", hcl.InitialPos)
	if diags.HasErrors() {
		return cty.NilVal, fmt.Errorf("failed to parse expression: %w", diags)
	}

	val, diags := expr.Value(h.evalContext(nil))
	if diags.HasErrors() {
		return cty.NilVal, newEvalError(diags)
	}
	logger.Debug("Expression evaluated.", "expr", src, "type", val.Type().FriendlyName())
	return val, nil
}

func (h *Host) runFile(ctx context.Context, path string, file *hcl.File) error {
	logger := ctxlog.FromContext(ctx)

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	for _, blk := range root.Modules {
		if err := h.runModule(ctx, blk); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	logger.Debug("Module file loaded.", "file", path, "modules", len(root.Modules))
	return nil
}

func (h *Host) runModule(ctx context.Context, blk *moduleBlock) error {
	logger := ctxlog.FromContext(ctx).With("module", blk.Name)

	attrs, diags := blk.Body.JustAttributes()
	if diags.HasErrors() {
		return &registry.LoadError{Module: blk.Name, Err: diags}
	}

	ns, created := h.module.Registry().Exports(blk.Name)
	if !created {
		logger.Warn("Module namespace already exists; its exports will be extended.")
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	for _, attr := range ordered {
		val, diags := attr.Expr.Value(h.evalContext(ns))
		if diags.HasErrors() {
			return &registry.LoadError{Module: blk.Name, Err: newEvalError(diags)}
		}
		ns.Set(attr.Name, val)
		logger.Debug("Export published.", "export", attr.Name, "type", val.Type().FriendlyName())
	}
	return nil
}

func (h *Host) evalContext(self *registry.Namespace) *hcl.EvalContext {
	vars := map[string]cty.Value{
		"module": cty.ObjectVal(map[string]cty.Value{
			"id": cty.StringVal(h.module.ID()),
		}),
	}
	if self != nil {
		vars["exports"] = ctyconv.Namespace(self)
	}
	return &hcl.EvalContext{
		Variables: vars,
		Functions: map[string]function.Function{
			"require": h.requireFunc(),
			"call":    h.callFunc(),
		},
	}
}

// EvalError wraps the diagnostics of a failed evaluation. When a registry
// function failed, Unwrap returns that failure so errors.Is can match
// registry.ErrUnknownModule.
type EvalError struct {
	Diags hcl.Diagnostics
	Cause error
}

func newEvalError(diags hcl.Diagnostics) *EvalError {
	e := &EvalError{Diags: diags}
	for _, d := range diags {
		if extra, ok := d.Extra.(hclsyntax.FunctionCallDiagExtra); ok {
			if cause := extra.FunctionCallError(); cause != nil {
				e.Cause = cause
				break
			}
		}
	}
	return e
}

// Error implements the error interface.
func (e *EvalError) Error() string {
	return e.Diags.Error()
}

// Unwrap returns the failure reported by a registry function, if any.
func (e *EvalError) Unwrap() error {
	return e.Cause
}

// IsEvalError reports whether err is or wraps an *EvalError.
func IsEvalError(err error) bool {
	var e *EvalError
	return errors.As(err, &e)
}
