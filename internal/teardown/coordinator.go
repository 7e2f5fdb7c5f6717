// Package teardown releases constructed object graphs without ever letting
// a secondary failure mask the primary result.
//
// Release is a "never throws" boundary. Panicking disposers and
// already-released instances are recorded into the returned Report and
// logged; nothing propagates. Failures stay observable without becoming
// anyone's problem.
package teardown

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/affine"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
)

// Disposable is the control library's teardown contract. io.Closer is
// honored as well for synthesized dependencies that only hold resources.
type Disposable interface {
	Dispose() error
}

// Outcome is the per-object result of a release pass. Err is nil when the
// object released cleanly or had nothing to release.
type Outcome struct {
	Object string
	Err    error
}

// Report lists what a Release call did. It exists so suppressed failures
// remain observable; callers are free to ignore it.
type Report struct {
	Outcomes []Outcome
}

// Suppressed returns the number of teardown failures that were swallowed.
func (r Report) Suppressed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// DefaultBudget bounds the affine hop a release may need when called from
// outside a worker.
const DefaultBudget = 5 * time.Second

// Coordinator tears down constructed instances and their owned
// dependencies.
type Coordinator struct {
	exec   affine.Executor
	budget time.Duration
}

// New creates a Coordinator. exec is used to marshal disposal onto an
// affine worker when Release is called from a non-affine goroutine.
func New(exec affine.Executor) *Coordinator {
	return &Coordinator{exec: exec, budget: DefaultBudget}
}

// Release tears down inst and every dependency it owns, instance first.
// It never panics and never fails: a nil or already-released instance is a
// no-op, and each object's teardown error or panic is suppressed into the
// report. Each instance is released exactly once.
func (c *Coordinator) Release(ctx context.Context, inst *resolve.Constructed) (report Report) {
	logger := ctxlog.FromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Release recovered an unexpected panic.", "panic", r)
		}
	}()

	if inst == nil {
		return report
	}
	if !inst.MarkReleased() {
		logger.Debug("Instance already released, skipping.", "target", inst.Target)
		return report
	}

	objects := append([]any{inst.Value}, inst.Owned()...)

	// Constructed objects carry thread affinity; when the caller is not
	// already on an affine worker, hop onto one for the whole pass.
	if !affine.InWorker(ctx) {
		raw, err := c.exec.Run(ctx, c.budget, func(workerCtx context.Context) (any, error) {
			return c.releaseAll(workerCtx, inst.Target, objects), nil
		})
		if err != nil {
			logger.Warn("Affine hop for release failed; objects were not torn down.", "target", inst.Target, "error", err)
			report.Outcomes = append(report.Outcomes, Outcome{Object: inst.Target, Err: err})
			return report
		}
		return raw.(Report)
	}
	return c.releaseAll(ctx, inst.Target, objects)
}

// releaseAll disposes each object in order, suppressing every failure.
func (c *Coordinator) releaseAll(ctx context.Context, target string, objects []any) Report {
	logger := ctxlog.FromContext(ctx)
	var report Report
	for i, obj := range objects {
		name := fmt.Sprintf("%s[%d]", target, i)
		if err := releaseOne(obj); err != nil {
			logger.Debug("Teardown failure suppressed.", "object", name, "error", err)
			report.Outcomes = append(report.Outcomes, Outcome{Object: name, Err: err})
			continue
		}
		report.Outcomes = append(report.Outcomes, Outcome{Object: name})
	}
	if n := report.Suppressed(); n > 0 {
		logger.Warn("Teardown completed with suppressed failures.", "target", target, "suppressed", n)
	}
	return report
}

// releaseOne disposes a single object, converting panics into errors.
// Objects that are neither Disposable nor io.Closer have nothing to
// release.
func releaseOne(obj any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("teardown panicked: %v", r)
		}
	}()

	switch d := obj.(type) {
	case nil:
		return nil
	case Disposable:
		return d.Dispose()
	case io.Closer:
		return d.Close()
	default:
		return nil
	}
}
