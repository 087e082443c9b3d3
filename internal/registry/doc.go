// Package registry is the module namespace registry.
//
// A Registry maps module names to Namespace handles. Module bodies obtain
// their own namespace with Exports (get-or-create) and read namespaces
// published by other modules with Require (lookup). Handles are live and
// shared: whatever a module sets on its namespace after handing it out is
// visible to every holder of the handle.
//
// Install places the two entry points onto a globalenv.Env as the `module`
// and `require` bindings, refusing to overwrite an existing binding of either
// name. Loading module bodies, ordering them and detecting dependency cycles
// are left to the host; a reentrant Require of a module that has called
// Exports but not finished populating it returns the partial namespace.
package registry
