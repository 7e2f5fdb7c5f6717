// Package app wires the harness together: configuration, logger, control
// registry, manifest loading, and the batch run itself. It owns the
// application lifecycle so that cmd/cli stays a thin shell.
package app
