// Package controls is the headless stand-in for the legacy control
// library: a set of constructible UI control types with themes, palettes
// and layout properties, but no rendering surface.
//
// The harness core never imports this package by name; it sees the types
// only through the registry. Everything here exists to be reflected over
// by the resolver, poked at by snippets, and inspected by checks.
package controls
