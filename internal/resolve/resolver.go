package resolve

import (
	"context"
	"fmt"
	"reflect"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/registry"
)

// Resolver constructs instances of registered target types.
type Resolver struct {
	reg        *registry.Registry
	strategies []Strategy
}

// New creates a Resolver over a registry with the default strategy table.
func New(reg *registry.Registry) *Resolver {
	return &Resolver{reg: reg, strategies: defaultStrategies()}
}

// Construct builds an instance of the named target type. Seeds are caller
// supplied instances bound directly to matching constructor parameters;
// everything else is synthesized. Every call returns a distinct instance.
func (r *Resolver) Construct(ctx context.Context, target string, seeds ...any) (*Constructed, error) {
	t, ok := r.reg.Target(target)
	if !ok {
		return nil, &UnknownTargetError{Target: target}
	}

	seedVals := make([]reflect.Value, 0, len(seeds))
	for _, seed := range seeds {
		if seed == nil {
			continue
		}
		seedVals = append(seedVals, reflect.ValueOf(seed))
	}
	return r.construct(ctx, t, seedVals, 0)
}

// construct walks the candidate constructors in ascending arity order.
// Resolution or invocation failure of one candidate is recorded and the
// next candidate tried; only full exhaustion is fatal.
func (r *Resolver) construct(ctx context.Context, t *registry.Target, seeds []reflect.Value, depth int) (*Constructed, error) {
	logger := ctxlog.FromContext(ctx).With("target", t.Name)
	s := &session{r: r, seeds: seeds, depth: depth}

	var lastErr error
	for _, ctor := range t.Ctors {
		args, bindings, owned, err := r.resolveParams(ctx, s, t, ctor)
		if err != nil {
			logger.Debug("Constructor candidate non-viable.", "arity", ctor.Arity(), "error", err)
			lastErr = err
			continue
		}

		val, err := invoke(ctor.Value(), args)
		if err != nil {
			lastErr = &InstantiationError{Target: t.Name, Arity: ctor.Arity(), Cause: err}
			logger.Debug("Constructor invocation failed, trying next candidate.", "arity", ctor.Arity(), "error", err)
			continue
		}

		logger.Debug("Target constructed.", "arity", ctor.Arity(), "owned", len(owned))
		return &Constructed{
			Value:    val,
			Type:     t.Type,
			Target:   t.Name,
			Bindings: bindings,
			owned:    owned,
		}, nil
	}

	return nil, &NoViableConstructorError{Target: t.Name, Candidates: len(t.Ctors), Last: lastErr}
}

// resolveParams binds every parameter of a candidate independently. Any
// parameter no strategy matches renders the candidate non-viable.
func (r *Resolver) resolveParams(ctx context.Context, s *session, t *registry.Target, ctor *registry.Constructor) ([]reflect.Value, []Binding, []any, error) {
	ft := ctor.Value().Type()
	args := make([]reflect.Value, 0, ft.NumIn())
	bindings := make([]Binding, 0, ft.NumIn())
	var owned []any

	for i := 0; i < ft.NumIn(); i++ {
		p := Param{Name: ctor.ParamName(i), Type: ft.In(i)}
		b, err := r.bindParam(ctx, s, p)
		if err != nil {
			if upe, ok := err.(*UnresolvableParameterError); ok && upe.Target == "" {
				upe.Target = t.Name
			}
			return nil, nil, nil, err
		}
		args = append(args, b.value)
		bindings = append(bindings, Binding{Param: p.Name, Type: p.Type, Strategy: b.strategy})
		owned = append(owned, b.owned...)
	}
	return args, bindings, owned, nil
}

// bindParam runs the ranked strategy table for one parameter.
func (r *Resolver) bindParam(ctx context.Context, s *session, p Param) (bound, error) {
	for _, strat := range r.strategies {
		if strat.Matches(s, p) {
			return strat.Bind(ctx, s, p)
		}
	}
	return bound{}, &UnresolvableParameterError{Param: p.Name, Type: p.Type}
}

// invoke calls a constructor, converting both returned errors and panics
// into ordinary errors so one failing candidate cannot abort resolution.
func invoke(fn reflect.Value, args []reflect.Value) (val any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			val = nil
			err = fmt.Errorf("constructor panicked: %v", rec)
		}
	}()

	out := fn.Call(args)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}
