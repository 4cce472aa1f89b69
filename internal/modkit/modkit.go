// Package modkit holds the wiring shared by API modules
package modkit

import "trendlens/internal/modkit/module"

// Module is the surface every API module implements
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
