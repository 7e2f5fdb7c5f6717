package resolve

import (
	"fmt"
	"reflect"
	"strconv"
)

// UnknownTargetError is returned when the requested type name has no
// registration at all.
type UnknownTargetError struct {
	Target string
}

// Error implements the error interface.
func (e *UnknownTargetError) Error() string {
	return "resolve: unknown target type " + strconv.Quote(e.Target)
}

// NoViableConstructorError is returned when every candidate constructor was
// either non-viable (an unresolvable parameter) or failed at invocation.
type NoViableConstructorError struct {
	Target     string
	Candidates int
	Last       error
}

// Error implements the error interface.
func (e *NoViableConstructorError) Error() string {
	msg := fmt.Sprintf("resolve: no viable constructor for %q (%d candidates tried)", e.Target, e.Candidates)
	if e.Last != nil {
		msg += ": last failure: " + e.Last.Error()
	}
	return msg
}

// Unwrap exposes the last underlying failure for errors.Is/As.
func (e *NoViableConstructorError) Unwrap() error { return e.Last }

// UnresolvableParameterError marks a single parameter no strategy could
// bind. It renders the owning constructor non-viable rather than failing
// the whole resolution.
type UnresolvableParameterError struct {
	Target string
	Param  string
	Type   reflect.Type
}

// Error implements the error interface.
func (e *UnresolvableParameterError) Error() string {
	return fmt.Sprintf("resolve: parameter %q of %q has unresolvable type %s", e.Param, e.Target, e.Type)
}

// InstantiationError wraps an error (or recovered panic) raised by a
// constructor invocation itself, after all parameters resolved.
type InstantiationError struct {
	Target string
	Arity  int
	Cause  error
}

// Error implements the error interface.
func (e *InstantiationError) Error() string {
	return fmt.Sprintf("resolve: constructor of %q (arity %d) failed: %v", e.Target, e.Arity, e.Cause)
}

// Unwrap exposes the constructor's own error.
func (e *InstantiationError) Unwrap() error { return e.Cause }
