package registry

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"
)

// Module is the interface control libraries implement to contribute their
// types, stubs and templates to a registry instance.
type Module interface {
	Register(r *Registry)
}

// Constructor is one candidate way to build a target type. Fn must be a
// func whose results are (T) or (T, error). ParamNames optionally names the
// parameters in order; the resolver uses names for its string-synthesis
// heuristics. Missing names fall back to arg0, arg1, ….
type Constructor struct {
	Fn         any
	ParamNames []string

	fn reflect.Value
}

// Value returns the reflected constructor function.
func (c *Constructor) Value() reflect.Value { return c.fn }

// Arity returns the parameter count.
func (c *Constructor) Arity() int { return c.fn.Type().NumIn() }

// ParamName returns the declared or synthesized name of parameter i.
func (c *Constructor) ParamName(i int) string {
	if i < len(c.ParamNames) && c.ParamNames[i] != "" {
		return c.ParamNames[i]
	}
	return fmt.Sprintf("arg%d", i)
}

// Target describes one registered control type: its identity plus its
// constructor candidates ordered by ascending parameter count.
type Target struct {
	Name  string
	Type  reflect.Type
	Ctors []*Constructor
}

// Registry holds the registered targets, interface stubs, and snippet
// templates for a single harness instance.
type Registry struct {
	targets   map[string]*Target
	byType    map[reflect.Type]*Target
	stubs     map[reflect.Type]func() any
	nilOK     map[reflect.Type]bool
	templates map[string]string
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		targets:   make(map[string]*Target),
		byType:    make(map[reflect.Type]*Target),
		stubs:     make(map[reflect.Type]func() any),
		nilOK:     make(map[reflect.Type]bool),
		templates: make(map[string]string),
	}
}

// RegisterTarget registers a control type under name with its constructor
// candidates. It panics on duplicate names or malformed constructors; both
// are programmer errors in the registering module.
func (r *Registry) RegisterTarget(name string, ctors ...*Constructor) {
	if _, exists := r.targets[name]; exists {
		panic(fmt.Sprintf("target type '%s' already registered", name))
	}
	if len(ctors) == 0 {
		panic(fmt.Sprintf("target type '%s' registered without constructors", name))
	}

	var produced reflect.Type
	for _, ctor := range ctors {
		out, err := validateConstructor(ctor)
		if err != nil {
			panic(fmt.Sprintf("target type '%s': %v", name, err))
		}
		if produced == nil {
			produced = out
		} else if produced != out {
			panic(fmt.Sprintf("target type '%s': constructors produce mixed types %s and %s", name, produced, out))
		}
	}

	// Least complex candidate first; the resolver walks this order.
	sort.SliceStable(ctors, func(i, j int) bool { return ctors[i].Arity() < ctors[j].Arity() })

	slog.Debug("Registering target type.", "name", name, "type", produced.String(), "constructors", len(ctors))
	t := &Target{Name: name, Type: produced, Ctors: ctors}
	r.targets[name] = t
	r.byType[produced] = t
}

// validateConstructor checks the candidate's shape and caches its reflect.Value.
func validateConstructor(c *Constructor) (reflect.Type, error) {
	if c == nil || c.Fn == nil {
		return nil, fmt.Errorf("nil constructor")
	}
	v := reflect.ValueOf(c.Fn)
	t := v.Type()
	if t.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a func, got %s", t.Kind())
	}
	if t.IsVariadic() {
		return nil, fmt.Errorf("variadic constructors are not supported")
	}
	switch t.NumOut() {
	case 1:
		// (T) only
	case 2:
		if t.Out(1) != reflect.TypeOf((*error)(nil)).Elem() {
			return nil, fmt.Errorf("second result must be error, got %s", t.Out(1))
		}
	default:
		return nil, fmt.Errorf("constructor must return (T) or (T, error), returns %d values", t.NumOut())
	}
	if len(c.ParamNames) > t.NumIn() {
		return nil, fmt.Errorf("constructor has %d parameters but %d names", t.NumIn(), len(c.ParamNames))
	}
	c.fn = v
	return t.Out(0), nil
}

// Target looks up a registered type by name.
func (r *Registry) Target(name string) (*Target, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// TargetFor looks up a registered type by its produced reflect.Type. The
// resolver uses this when recursing into view-model parameters.
func (r *Registry) TargetFor(typ reflect.Type) (*Target, bool) {
	t, ok := r.byType[typ]
	return t, ok
}

// TargetNames returns all registered type names, sorted.
func (r *Registry) TargetNames() []string {
	names := make([]string, 0, len(r.targets))
	for name := range r.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
