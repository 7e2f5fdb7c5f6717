package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/affine"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/registry"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
)

func testEngine() *Engine {
	return New(registry.New(), affine.NewExecutor(), NewStore())
}

func exec(t *testing.T, e *Engine, req Request) *Result {
	t.Helper()
	res, err := e.Execute(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestExecuteEvaluatesAttributeSequence(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `
		a = 2
		b = a * 3
		result = b + 1
	`})
	require.True(t, res.OK)
	require.Equal(t, cty.NumberIntVal(7), res.Value)
}

func TestExecuteLastValueWinsWithoutResultAttr(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `
		first = "one"
		second = upper(first)
	`})
	require.True(t, res.OK)
	require.Equal(t, cty.StringVal("ONE"), res.Value)
	require.Equal(t, "ONE", res.GoValue)
}

func TestExecuteCapturesPrintedOutput(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `
		x = print("hello", 42)
		y = print("second line")
	`})
	require.True(t, res.OK)
	require.Equal(t, "hello 42\nsecond line\n", res.Output)
}

func TestExecuteCompileErrorCarriesLineNumber(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: "a = 1\nb = = nonsense\n"})
	require.False(t, res.OK)
	require.Equal(t, KindCompile, res.Kind)

	var ce *CompileError
	require.ErrorAs(t, res.Err, &ce)
	require.Contains(t, res.Err.Error(), "(line 2)")
}

func TestExecuteRejectsBlocks(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: "settings {\n  a = 1\n}\n"})
	require.False(t, res.OK)
	require.Equal(t, KindCompile, res.Kind)
}

func TestExecuteRuntimeErrorNamesAttribute(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `bad = undeclared + 1`})
	require.False(t, res.OK)
	require.Equal(t, KindRuntime, res.Kind)

	var re *RuntimeError
	require.ErrorAs(t, res.Err, &re)
	require.Equal(t, "bad", re.Attr)
}

// slowTarget stalls inside Properties so the worker overruns its budget
// deterministically.
type slowTarget struct{ d time.Duration }

func (s slowTarget) Properties() map[string]cty.Value {
	time.Sleep(s.d)
	return map[string]cty.Value{"kind": cty.StringVal("slow")}
}

func TestExecuteTimeout(t *testing.T) {
	e := testEngine()

	res, err := e.Execute(context.Background(), Request{
		Source:  `k = target.kind`,
		Timeout: 20 * time.Millisecond,
		Target:  &resolve.Constructed{Value: slowTarget{d: 500 * time.Millisecond}},
	})
	require.NoError(t, err)
	require.False(t, res.OK)
	require.Equal(t, KindTimeout, res.Kind)
	require.True(t, affine.IsTimeout(res.Err))
}

func TestExecuteNearTimeoutFlagged(t *testing.T) {
	e := testEngine()

	res, err := e.Execute(context.Background(), Request{
		Source:  `k = target.kind`,
		Timeout: 300 * time.Millisecond,
		Target:  &resolve.Constructed{Value: slowTarget{d: 260 * time.Millisecond}},
	})
	require.NoError(t, err)
	require.True(t, res.OK)
	require.True(t, res.NearTimeout)
	require.Equal(t, cty.StringVal("slow"), res.Value)
}

func TestExecuteExposesTargetProperties(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{
		Source: `result = upper(target.kind)`,
		Target: &resolve.Constructed{Value: slowTarget{}},
	})
	require.True(t, res.OK)
	require.Equal(t, cty.StringVal("SLOW"), res.Value)
}

func TestExecuteSessionStateCarriesAcrossCalls(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `counter = 1`, SessionID: "s1"})
	require.True(t, res.OK)

	res = exec(t, e, Request{Source: `counter = counter + 1`, SessionID: "s1"})
	require.True(t, res.OK)
	require.Equal(t, cty.NumberIntVal(2), res.Value)

	sess, created := e.Sessions().GetOrCreate("s1")
	require.False(t, created)
	require.Equal(t, 2, sess.Calls())
}

func TestExecuteSessionsAreIsolated(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `secret = "a"`, SessionID: "one"})
	require.True(t, res.OK)

	res = exec(t, e, Request{Source: `leak = secret`, SessionID: "two"})
	require.False(t, res.OK)
	require.Equal(t, KindRuntime, res.Kind)
}

func TestExecuteFailedCallDoesNotCommitSession(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `kept = "yes"`, SessionID: "s"})
	require.True(t, res.OK)

	res = exec(t, e, Request{Source: "leaked = \"no\"\nbad = undeclared", SessionID: "s"})
	require.False(t, res.OK)

	res = exec(t, e, Request{Source: `check = leaked`, SessionID: "s"})
	require.False(t, res.OK, "variables from a failed call must not persist")

	res = exec(t, e, Request{Source: `check = kept`, SessionID: "s"})
	require.True(t, res.OK)
	require.Equal(t, cty.StringVal("yes"), res.Value)
}

// The injected target must not outlive its own call: a later call on the
// same session without a target has no "target" variable at all.
func TestExecuteTargetDoesNotPersistInSession(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{
		Source:    `kind = target.kind`,
		SessionID: "s",
		Target:    &resolve.Constructed{Value: slowTarget{}},
	})
	require.True(t, res.OK)
	require.Equal(t, cty.StringVal("slow"), res.Value)

	res = exec(t, e, Request{Source: `again = target.kind`, SessionID: "s"})
	require.False(t, res.OK, "stale target resolved on a target-less call")
	require.Equal(t, KindRuntime, res.Kind)

	// Variables the snippet itself declared still carry forward.
	res = exec(t, e, Request{Source: `check = kind`, SessionID: "s"})
	require.True(t, res.OK)
	require.Equal(t, cty.StringVal("slow"), res.Value)
}

func TestExecuteStatelessWithoutSessionID(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `x = 1`})
	require.True(t, res.OK)
	require.Equal(t, 0, e.Sessions().Len())
}

func TestExecuteTemplatePrepended(t *testing.T) {
	reg := registry.New()
	reg.RegisterTemplate("base", `greeting = "hello"`)
	e := New(reg, affine.NewExecutor(), NewStore())

	res := exec(t, e, Request{Source: `result = upper(greeting)`, Template: "base"})
	require.True(t, res.OK)
	require.Equal(t, cty.StringVal("HELLO"), res.Value)
}

func TestExecuteUnknownTemplateIsRequestError(t *testing.T) {
	e := testEngine()

	_, err := e.Execute(context.Background(), Request{Source: `x = 1`, Template: "missing"})
	require.Error(t, err)
}

func TestExecuteSourceFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippet.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`result = 10 * 4`), 0644))

	e := testEngine()
	res := exec(t, e, Request{SourcePath: path})
	require.True(t, res.OK)
	require.Equal(t, cty.NumberIntVal(40), res.Value)
}

func TestExecuteUnreadableFileIsRequestError(t *testing.T) {
	e := testEngine()

	_, err := e.Execute(context.Background(), Request{SourcePath: filepath.Join(t.TempDir(), "absent.hcl")})
	require.Error(t, err)
}

func TestExecuteNoAffinityMatchesClassification(t *testing.T) {
	e := testEngine()

	res := exec(t, e, Request{Source: `result = 5`, NoAffinity: true})
	require.True(t, res.OK)
	require.Equal(t, cty.NumberIntVal(5), res.Value)

	res = exec(t, e, Request{Source: `bad = nope`, NoAffinity: true})
	require.Equal(t, KindRuntime, res.Kind)
}

func TestSessionStoreLifecycle(t *testing.T) {
	store := NewStore()

	_, created := store.GetOrCreate("a")
	require.True(t, created)
	_, created = store.GetOrCreate("a")
	require.False(t, created)
	require.Equal(t, 1, store.Len())

	require.True(t, store.Evict("a"))
	require.False(t, store.Evict("a"))

	store.GetOrCreate("b")
	store.GetOrCreate("c")
	store.Clear()
	require.Equal(t, 0, store.Len())
}

func TestValueToGoConvertsCommonShapes(t *testing.T) {
	cases := []struct {
		name string
		in   cty.Value
		want any
	}{
		{"string", cty.StringVal("s"), "s"},
		{"bool", cty.True, true},
		{"list", cty.ListVal([]cty.Value{cty.StringVal("a"), cty.StringVal("b")}), []any{"a", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValueToGo(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}
