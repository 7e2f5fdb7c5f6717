package resolve

import (
	"reflect"
	"sync/atomic"
)

// BindingStrategy tags how one constructor parameter was satisfied.
type BindingStrategy string

const (
	BindSeed       BindingStrategy = "seed"
	BindNullLogger BindingStrategy = "null-logger"
	BindSynthText  BindingStrategy = "synthesized-string"
	BindNested     BindingStrategy = "nested-model"
	BindStub       BindingStrategy = "stub-interface"
)

// Binding records one resolved constructor parameter.
type Binding struct {
	Param    string
	Type     reflect.Type
	Strategy BindingStrategy
}

// Constructed is a built target instance plus the synthesized dependencies
// it owns. Ownership of owned disposables transfers to the caller, which
// normally hands them to the teardown coordinator; the resolver retains
// nothing.
type Constructed struct {
	// Value is the constructed instance.
	Value any
	// Type is the produced type, as registered.
	Type reflect.Type
	// Target is the registered type name.
	Target string
	// Bindings describes how each parameter of the winning constructor
	// was satisfied, in declaration order.
	Bindings []Binding

	owned    []any
	released atomic.Bool
}

// Adopt wraps an instance that was built outside the resolver, together
// with any dependencies whose lifetime it should carry, so it can flow
// through the same teardown path as resolved instances.
func Adopt(target string, value any, owned ...any) *Constructed {
	return &Constructed{
		Value:  value,
		Type:   reflect.TypeOf(value),
		Target: target,
		owned:  owned,
	}
}

// Owned returns the synthesized dependencies whose lifetime this instance
// carries. Caller seeds are never owned.
func (c *Constructed) Owned() []any { return c.owned }

// MarkReleased flips the instance to released exactly once. The teardown
// coordinator uses this as its double-disposal guard.
func (c *Constructed) MarkReleased() bool {
	return c.released.CompareAndSwap(false, true)
}

// Released reports whether teardown already ran.
func (c *Constructed) Released() bool { return c.released.Load() }
