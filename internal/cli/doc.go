// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// merges defaults, an optional YAML config file, NSREG_* environment
// variables and flags into the application's configuration.
package cli
