package resolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
)

// Param is one constructor parameter under resolution.
type Param struct {
	Name string
	Type reflect.Type
}

// bound is the product of a successful strategy application.
type bound struct {
	value    reflect.Value
	owned    []any
	strategy BindingStrategy
}

// Strategy is one entry in the ranked resolution table. Strategies are
// evaluated in order; the first whose Matches returns true binds the
// parameter. Extend resolution by adding strategies, not branches.
type Strategy struct {
	Name    BindingStrategy
	Matches func(s *session, p Param) bool
	Bind    func(ctx context.Context, s *session, p Param) (bound, error)
}

// session carries per-Construct state through the strategy table.
type session struct {
	r     *Resolver
	seeds []reflect.Value
	depth int
}

var loggerType = reflect.TypeOf((*slog.Logger)(nil))

// pathCounter makes synthesized temp paths distinct across calls.
var pathCounter atomic.Int64

// defaultStrategies builds the standard ranked table.
func defaultStrategies() []Strategy {
	return []Strategy{
		{
			Name: BindSeed,
			Matches: func(s *session, p Param) bool {
				return s.findSeed(p.Type) != nil
			},
			Bind: func(_ context.Context, s *session, p Param) (bound, error) {
				// Seeds belong to the caller; never owned.
				return bound{value: *s.findSeed(p.Type), strategy: BindSeed}, nil
			},
		},
		{
			Name: BindNullLogger,
			Matches: func(_ *session, p Param) bool {
				return p.Type == loggerType
			},
			Bind: func(_ context.Context, _ *session, _ Param) (bound, error) {
				return bound{value: reflect.ValueOf(slog.New(slog.NewTextHandler(io.Discard, nil))), strategy: BindNullLogger}, nil
			},
		},
		{
			Name: BindSynthText,
			Matches: func(_ *session, p Param) bool {
				return p.Type.Kind() == reflect.String
			},
			Bind: func(_ context.Context, _ *session, p Param) (bound, error) {
				var synth string
				if pathLike(p.Name) {
					synth = filepath.Join(os.TempDir(), fmt.Sprintf("harness-%s-%d.tmp", p.Name, pathCounter.Add(1)))
				} else {
					synth = p.Name + "-placeholder"
				}
				v := reflect.New(p.Type).Elem()
				v.SetString(synth)
				return bound{value: v, strategy: BindSynthText}, nil
			},
		},
		{
			Name: BindNested,
			Matches: func(s *session, p Param) bool {
				return s.depth == 0 && viewModelLike(p.Type)
			},
			Bind: bindNestedModel,
		},
		{
			Name: BindStub,
			Matches: func(_ *session, p Param) bool {
				return p.Type.Kind() == reflect.Interface
			},
			Bind: bindInterfaceStub,
		},
	}
}

// findSeed returns the first caller seed assignable to the parameter type.
func (s *session) findSeed(t reflect.Type) *reflect.Value {
	for i := range s.seeds {
		if s.seeds[i].Type().AssignableTo(t) {
			return &s.seeds[i]
		}
	}
	return nil
}

// pathLike reports whether a parameter name suggests a filesystem path.
func pathLike(name string) bool {
	n := strings.ToLower(name)
	for _, hint := range []string{"path", "file", "dir", "folder"} {
		if strings.Contains(n, hint) {
			return true
		}
	}
	return false
}

// viewModelLike reports whether a type follows the view-model naming
// convention the control library uses for its presentation models.
func viewModelLike(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return strings.HasSuffix(t.Name(), "Model")
}

// bindNestedModel recurses one level into a view-model parameter using the
// same resolution algorithm, falling back to a nil value when the nested
// construction fails.
func bindNestedModel(ctx context.Context, s *session, p Param) (bound, error) {
	logger := ctxlog.FromContext(ctx)
	target, ok := s.r.reg.TargetFor(p.Type)
	if ok {
		nested, err := s.r.construct(ctx, target, nil, s.depth+1)
		if err == nil {
			owned := append([]any{nested.Value}, nested.Owned()...)
			return bound{value: reflect.ValueOf(nested.Value), owned: owned, strategy: BindNested}, nil
		}
		logger.Debug("Nested view-model construction failed, falling back to nil.", "param", p.Name, "type", p.Type.String(), "error", err)
	}
	if p.Type.Kind() == reflect.Ptr || p.Type.Kind() == reflect.Interface {
		return bound{value: reflect.Zero(p.Type), strategy: BindNested}, nil
	}
	return bound{}, &UnresolvableParameterError{Param: p.Name, Type: p.Type}
}

// bindInterfaceStub satisfies an interface parameter with a registered
// no-op stub, or a nil value when the registry marks the interface as
// nil-tolerant. Interfaces the constructor would actually call through must
// have a stub; binding nil there would trade a resolution error for a
// runtime panic.
func bindInterfaceStub(_ context.Context, s *session, p Param) (bound, error) {
	if stub, ok := s.r.reg.Stub(p.Type); ok {
		return bound{value: reflect.ValueOf(stub).Convert(p.Type), owned: []any{stub}, strategy: BindStub}, nil
	}
	if s.r.reg.NilTolerant(p.Type) {
		return bound{value: reflect.Zero(p.Type), strategy: BindStub}, nil
	}
	return bound{}, &UnresolvableParameterError{Param: p.Name, Type: p.Type}
}
