package registry

import (
	"fmt"
	"log/slog"
	"reflect"
)

// RegisterStub registers a no-op implementation factory for an interface
// type. iface must be a pointer to the interface, e.g.
// (*controls.ChartRenderer)(nil). The resolver hands the factory's product
// to any constructor parameter of that interface type.
func (r *Registry) RegisterStub(iface any, factory func() any) {
	t := interfaceType(iface)
	if _, exists := r.stubs[t]; exists {
		panic(fmt.Sprintf("stub for interface '%s' already registered", t))
	}
	slog.Debug("Registering interface stub.", "interface", t.String())
	r.stubs[t] = factory
}

// RegisterNilTolerant marks an interface as safe to satisfy with a nil
// value. Constructors in the control library guard these abstractions
// against nil themselves.
func (r *Registry) RegisterNilTolerant(iface any) {
	t := interfaceType(iface)
	r.nilOK[t] = true
}

// Stub returns a freshly built stub for the interface type, if one is
// registered.
func (r *Registry) Stub(t reflect.Type) (any, bool) {
	factory, ok := r.stubs[t]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// NilTolerant reports whether a nil value is an acceptable binding for the
// interface type.
func (r *Registry) NilTolerant(t reflect.Type) bool { return r.nilOK[t] }

func interfaceType(iface any) reflect.Type {
	t := reflect.TypeOf(iface)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Interface {
		panic(fmt.Sprintf("expected pointer-to-interface, got %T", iface))
	}
	return t.Elem()
}
