// Package hclhost is an embedding host that runs module bodies written in
// HCL against an installed module registry.
//
// A module file contains one or more `module` blocks:
//
//	module "greeting" {
//	  name    = "world"
//	  message = "hello ${exports.name}"
//	  sum     = call("math", "add", 1, 2)
//	  pi      = require("math").pi
//	}
//
// Running a block calls Exports with the block label and then evaluates the
// attributes in source order, publishing each result on the namespace. Inside
// a block `exports` refers to the namespace as populated so far and
// `module.id` to the most recently created module name. Files run in the
// order they are given and blocks in the order they appear; the host does
// not reorder them to satisfy dependencies.
package hclhost
