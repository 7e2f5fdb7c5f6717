package engine

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Kind classifies an execution failure.
type Kind int

const (
	KindNone Kind = iota
	KindCompile
	KindRuntime
	KindTimeout
)

// String returns the wire-friendly label for the kind.
func (k Kind) String() string {
	switch k {
	case KindCompile:
		return "compile_error"
	case KindRuntime:
		return "runtime_error"
	case KindTimeout:
		return "timeout"
	default:
		return "none"
	}
}

// CompileError reports snippet parse failures with line numbers.
type CompileError struct {
	Diags hcl.Diagnostics
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	return "engine: compile failed: " + renderDiags(e.Diags)
}

// RuntimeError reports an evaluation failure, naming the attribute whose
// expression raised it.
type RuntimeError struct {
	Attr  string
	Diags hcl.Diagnostics
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	return fmt.Sprintf("engine: evaluating %q: %s", e.Attr, renderDiags(e.Diags))
}

// renderDiags flattens diagnostics into one line, keeping source positions.
func renderDiags(diags hcl.Diagnostics) string {
	if len(diags) == 0 {
		return "unknown error"
	}
	parts := make([]string, 0, len(diags))
	for _, d := range diags {
		msg := d.Summary
		if d.Detail != "" {
			msg += ": " + d.Detail
		}
		if d.Subject != nil {
			msg = fmt.Sprintf("%s (line %d)", msg, d.Subject.Start.Line)
		}
		parts = append(parts, msg)
	}
	return strings.Join(parts, "; ")
}
