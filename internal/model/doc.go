// Package model holds the shared data shapes of a validation run: unit
// specifications, per-unit results with phase timings, and batch summaries.
// It deliberately contains no behavior so that every component can exchange
// these types without import cycles.
package model
