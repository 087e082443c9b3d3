package app

import (
	"github.com/vk/nsreg/internal/registry"
	"github.com/vk/nsreg/modules/env_vars"
	"github.com/vk/nsreg/modules/increment"
	"github.com/vk/nsreg/modules/math"
	"github.com/vk/nsreg/modules/strings"
)

// coreModules is the definitive list of all modules that are compiled into
// the nsreg binary, in load order. increment requires math, so math must
// come first.
var coreModules = []registry.Body{
	&math.Module{},
	&increment.Module{},
	&strings.Module{},
	&env_vars.Module{},
}
