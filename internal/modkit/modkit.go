package modkit

import "followstats/internal/modkit/module"

// Module is the surface every API module exposes to the composer in
// services/api: its routes, its cross wiring ports and its name
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
