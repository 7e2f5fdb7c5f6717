package engine

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// outputSink collects text printed by a snippet during one call. It lives
// inside the worker closure and is only read after the worker completes, so
// it needs no locking.
type outputSink struct {
	b strings.Builder
}

func (o *outputSink) line(s string) {
	o.b.WriteString(s)
	o.b.WriteByte('\n')
}

func (o *outputSink) String() string { return o.b.String() }

// sandboxFunctions builds the fixed function table snippets evaluate
// against. print() writes to the call's output sink; the rest are cty
// stdlib helpers.
func sandboxFunctions(sink *outputSink) map[string]function.Function {
	return map[string]function.Function{
		"print":      newPrintFunc(sink),
		"format":     stdlib.FormatFunc,
		"upper":      stdlib.UpperFunc,
		"lower":      stdlib.LowerFunc,
		"strlen":     stdlib.StrlenFunc,
		"substr":     stdlib.SubstrFunc,
		"abs":        stdlib.AbsoluteFunc,
		"max":        stdlib.MaxFunc,
		"min":        stdlib.MinFunc,
		"length":     stdlib.LengthFunc,
		"concat":     stdlib.ConcatFunc,
		"jsonencode": stdlib.JSONEncodeFunc,
		"jsondecode": stdlib.JSONDecodeFunc,
	}
}

// newPrintFunc returns a variadic print() that renders its arguments
// space-separated and newline-terminated into the sink, returning true so
// it can be used as an attribute value.
func newPrintFunc(sink *outputSink) function.Function {
	return function.New(&function.Spec{
		VarParam: &function.Parameter{
			Name:             "values",
			Type:             cty.DynamicPseudoType,
			AllowNull:        true,
			AllowDynamicType: true,
		},
		Type: function.StaticReturnType(cty.Bool),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = renderValue(arg)
			}
			sink.line(strings.Join(parts, " "))
			return cty.True, nil
		},
	})
}

// renderValue gives a human-readable rendering of a cty value for output.
func renderValue(val cty.Value) string {
	goVal, err := ValueToGo(val)
	if err != nil {
		return fmt.Sprintf("[unprintable: %v]", err)
	}
	if s, ok := goVal.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", goVal)
}

// ValueToGo converts a cty.Value into plain Go data. Unknown and null
// values become nil.
func ValueToGo(val cty.Value) (any, error) {
	if !val.IsKnown() || val.IsNull() {
		return nil, nil
	}
	if val.Type().IsPrimitiveType() {
		switch val.Type() {
		case cty.String:
			return val.AsString(), nil
		case cty.Number:
			f, _ := val.AsBigFloat().Float64()
			return f, nil
		case cty.Bool:
			return val.True(), nil
		default:
			return nil, fmt.Errorf("unsupported primitive type: %s", val.Type().FriendlyName())
		}
	}
	if val.Type().IsObjectType() || val.Type().IsMapType() {
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			conv, err := ValueToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = conv
		}
		return out, nil
	}
	if val.Type().IsTupleType() || val.Type().IsListType() || val.Type().IsSetType() {
		var out []any
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			conv, err := ValueToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, conv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type for conversion: %s", val.Type().FriendlyName())
}
