// Package registry holds everything the harness knows about the control
// library at run time: which control types exist and how to construct them,
// which interface stubs can stand in for unresolved abstractions, and the
// named snippet templates available to the execution engine.
//
// Registration happens once at startup via Modules; duplicate registrations
// are programmer errors and panic, mismatched constructor shapes are caught
// here rather than at first resolution.
package registry
