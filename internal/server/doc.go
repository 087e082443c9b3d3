// Package server exposes a read-only HTTP view of a module registry.
//
// Routes:
//
//	GET /health          liveness probe
//	GET /modules         names of all namespaces and the last created name
//	GET /modules/{name}  exports of one namespace
//	GET /metrics         Prometheus metrics
//
// Lookups go through Registry.Require, so inspecting the registry never
// creates a namespace.
package server
