// Package globalenv models the single shared global namespace that
// independently-loaded module bodies run against.
//
// An Env is a flat set of named bindings. It knows nothing about modules;
// the registry package installs its `module` and `require` entry points onto
// an Env with DefineAll, which refuses to overwrite anything already bound.
package globalenv
