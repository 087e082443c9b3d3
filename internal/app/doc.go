// Package app contains the core application logic. It wires the global
// environment, the module registry, the builtin modules and the HCL host
// together, and runs them either as a one-shot evaluator or as an
// inspection server. It is decoupled from any specific entrypoint.
package app
