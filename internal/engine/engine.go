package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"sort"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/affine"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/registry"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
)

// DefaultTimeout bounds executions whose request carries no budget.
const DefaultTimeout = 30 * time.Second

// nearTimeoutFraction of the budget above which a success is flagged as
// having nearly timed out.
const nearTimeoutFraction = 0.8

// resultAttr names the attribute whose value becomes the call's return
// value when present.
const resultAttr = "result"

// Inspectable exposes a control's observable properties to snippets as the
// "target" variable.
type Inspectable interface {
	Properties() map[string]cty.Value
}

// Request describes one execution.
type Request struct {
	// Source is the inline snippet. When empty, SourcePath is read instead.
	Source     string
	SourcePath string
	// Template optionally names a registered fragment prepended to the
	// snippet before compilation.
	Template string
	// Timeout bounds the evaluation. Zero means DefaultTimeout.
	Timeout time.Duration
	// NoAffinity opts out of running on a thread-affine worker. Snippets
	// that touch control objects must leave this false.
	NoAffinity bool
	// SessionID selects a persistent session. Empty runs stateless.
	SessionID string
	// Target optionally exposes a constructed instance to the snippet.
	Target *resolve.Constructed
	// SnapshotPath, when non-empty, requests a best-effort bitmap capture
	// of the target after a successful run. Capture failures are ignored.
	SnapshotPath string
}

// Result is the classified outcome of one execution.
type Result struct {
	OK          bool
	Value       cty.Value
	GoValue     any
	Output      string
	Kind        Kind
	Err         error
	Elapsed     time.Duration
	NearTimeout bool
}

// Engine evaluates snippets. It is safe for concurrent use across distinct
// sessions; calls sharing one session id must be serialized by the caller.
type Engine struct {
	reg      *registry.Registry
	exec     affine.Executor
	sessions *Store
}

// New creates an Engine over a registry and a thread-affine executor.
func New(reg *registry.Registry, exec affine.Executor, sessions *Store) *Engine {
	return &Engine{reg: reg, exec: exec, sessions: sessions}
}

// Sessions returns the engine's session store.
func (e *Engine) Sessions() *Store { return e.sessions }

// evalOutcome is what a worker returns: everything the caller needs,
// produced entirely inside the worker so an abandoned worker shares
// nothing with the caller.
type evalOutcome struct {
	value  cty.Value
	vars   map[string]cty.Value
	output string
}

// Execute compiles and evaluates one request.
//
// Compile and evaluation failures classify into the Result rather than the
// returned error; the error return is reserved for malformed requests
// (e.g. an unreadable source file) and nested-affinity misuse.
func (e *Engine) Execute(ctx context.Context, req Request) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	budget := req.Timeout
	if budget <= 0 {
		budget = DefaultTimeout
	}

	src, filename, err := e.resolveSource(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()

	body, diags := compile(src, filename)
	if diags.HasErrors() {
		logger.Debug("Snippet failed to compile.", "file", filename, "error", renderDiags(diags))
		return &Result{Kind: KindCompile, Err: &CompileError{Diags: diags}, Elapsed: time.Since(start)}, nil
	}

	vars, sess := e.sessionVars(req.SessionID)

	fn := func(workerCtx context.Context) (any, error) {
		out, err := e.evaluate(workerCtx, body, vars, req.Target)
		if err != nil {
			return nil, err
		}
		if req.SnapshotPath != "" {
			e.captureSnapshot(workerCtx, req.Target, req.SnapshotPath)
		}
		return out, nil
	}

	var raw any
	if req.NoAffinity {
		raw, err = runDetached(ctx, budget, fn)
	} else {
		raw, err = e.exec.Run(ctx, budget, fn)
	}
	elapsed := time.Since(start)

	if err != nil {
		switch {
		case affine.IsTimeout(err):
			logger.Warn("Snippet execution timed out.", "file", filename, "budget", budget)
			return &Result{Kind: KindTimeout, Err: err, Elapsed: elapsed}, nil
		case errors.Is(err, affine.ErrNested), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return nil, err
		default:
			logger.Debug("Snippet raised a runtime error.", "file", filename, "error", err)
			return &Result{Kind: KindRuntime, Err: err, Elapsed: elapsed}, nil
		}
	}

	out := raw.(*evalOutcome)
	if sess != nil {
		sess.commit(out.vars)
	}

	goVal, convErr := ValueToGo(out.value)
	if convErr != nil {
		logger.Debug("Result value has no Go representation, returning cty only.", "error", convErr)
	}

	res := &Result{
		OK:      true,
		Value:   out.value,
		GoValue: goVal,
		Output:  out.output,
		Elapsed: elapsed,
	}
	if float64(elapsed) > nearTimeoutFraction*float64(budget) {
		logger.Warn("Snippet finished close to its budget.", "elapsed", elapsed, "budget", budget)
		res.NearTimeout = true
	}
	return res, nil
}

// resolveSource picks inline source or reads the referenced file, and
// prepends the named template when one is requested.
func (e *Engine) resolveSource(req Request) (string, string, error) {
	src := req.Source
	filename := "<inline>"
	if src == "" && req.SourcePath != "" {
		data, err := os.ReadFile(req.SourcePath)
		if err != nil {
			return "", "", fmt.Errorf("reading snippet source: %w", err)
		}
		src = string(data)
		filename = req.SourcePath
	}
	if req.Template != "" {
		tmpl, ok := e.reg.Template(req.Template)
		if !ok {
			return "", "", fmt.Errorf("unknown snippet template %q", req.Template)
		}
		src = tmpl + "\n" + src
	}
	return src, filename, nil
}

// sessionVars returns the working variable map for the call: a copy of the
// session's variables when an id is given, otherwise a fresh map that dies
// with the call.
func (e *Engine) sessionVars(id string) (map[string]cty.Value, *Session) {
	if id == "" {
		return make(map[string]cty.Value), nil
	}
	sess, _ := e.sessions.GetOrCreate(id)
	return sess.snapshot(), sess
}

// compile parses the snippet and rejects constructs the sandbox does not
// evaluate. Diagnostics carry line numbers.
func compile(src, filename string) (*hclsyntax.Body, hcl.Diagnostics) {
	file, diags := hclsyntax.ParseConfig([]byte(src), filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, diags
	}
	body := file.Body.(*hclsyntax.Body)
	for _, block := range body.Blocks {
		rng := block.TypeRange
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Blocks are not allowed in snippets",
			Detail:   fmt.Sprintf("Snippets are flat attribute sequences; found block %q.", block.Type),
			Subject:  &rng,
		})
	}
	if diags.HasErrors() {
		return nil, diags
	}
	return body, nil
}

// evaluate runs the snippet's attributes in source order, threading each
// declared variable into the scope of the ones after it.
func (e *Engine) evaluate(ctx context.Context, body *hclsyntax.Body, vars map[string]cty.Value, target *resolve.Constructed) (*evalOutcome, error) {
	logger := ctxlog.FromContext(ctx)
	sink := &outputSink{}

	// The injected target is per-call ambient state, not session state: it
	// lives in a parent scope so lookups resolve it, while declarations
	// land in vars and are the only thing a session carries forward.
	ambient := &hcl.EvalContext{
		Variables: map[string]cty.Value{},
		Functions: sandboxFunctions(sink),
	}
	if target != nil {
		if insp, ok := target.Value.(Inspectable); ok {
			ambient.Variables["target"] = cty.ObjectVal(insp.Properties())
		}
	}
	evalCtx := ambient.NewChild()
	evalCtx.Variables = vars

	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})

	out := &evalOutcome{value: cty.NilVal}
	for _, attr := range attrs {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, &RuntimeError{Attr: attr.Name, Diags: diags}
		}
		vars[attr.Name] = val
		out.value = val
		logger.Debug("Snippet attribute evaluated.", "name", attr.Name)
	}
	if val, ok := vars[resultAttr]; ok {
		out.value = val
	}

	out.vars = vars
	out.output = sink.String()
	return out, nil
}

// runDetached mirrors the affine executor's join semantics for snippets
// that opted out of thread affinity: same timeout classification, same
// abandon-on-timeout behavior, no OS thread pinning.
func runDetached(ctx context.Context, budget time.Duration, fn affine.Func) (any, error) {
	type detached struct {
		val any
		err error
	}
	resCh := make(chan detached, 1)
	go func() {
		var res detached
		func() {
			defer func() {
				if r := recover(); r != nil {
					res.err = fmt.Errorf("snippet evaluation panicked: %v\n%s", r, debug.Stack())
				}
			}()
			res.val, res.err = fn(ctx)
		}()
		resCh <- res
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()
	select {
	case res := <-resCh:
		return res.val, res.err
	case <-timer.C:
		return nil, &affine.TimeoutError{Budget: budget}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
