// Package resolve builds fully constructed control instances for registered
// target types, synthesizing whatever dependencies the chosen constructor
// needs.
//
// Candidate constructors are tried in ascending parameter count. Each
// parameter is bound by the first matching entry in a ranked strategy table
// of (predicate, binder) pairs: caller seeds, null loggers, synthesized
// strings, nested view-models, interface stubs. New binding behavior is
// added by appending strategies, never by growing a type switch.
//
// A constructor that fails to invoke is not fatal; the resolver records the
// failure and moves on to the next candidate. Only when every candidate is
// exhausted does Construct fail, with a NoViableConstructorError carrying
// the candidate count and the last underlying failure.
package resolve
