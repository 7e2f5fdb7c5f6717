package batch

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/affine"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/ctxlog"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/model"
	"github.com/Bigessfour/syncfusion-winforms-mcp-sub000/internal/resolve"
)

// phase codes stored in the shared progress marker. The marker is the only
// state a worker shares with the orchestrator, so a timed-out unit can
// still report which phase it was stuck in.
const (
	phaseInstantiate int32 = iota
	phaseLoad
	phaseValidate
	phaseDispose
)

func stageOf(phase int32) model.Stage {
	switch phase {
	case phaseInstantiate:
		return model.StageInstantiate
	case phaseLoad:
		return model.StageLoad
	case phaseValidate:
		return model.StageValidate
	case phaseDispose:
		return model.StageDispose
	default:
		return model.StageNone
	}
}

// unitOutcome is built entirely inside the worker and returned by value.
type unitOutcome struct {
	timings    model.PhaseTimings
	violations []model.Violation
	failStage  model.Stage
	message    string
}

// runUnit executes one unit's full sequence on an affine worker and
// classifies the join result. A worker panic becomes a failed result, not
// a crashed batch.
func (o *Orchestrator) runUnit(ctx context.Context, spec model.UnitSpec, opts Options) (res model.UnitResult) {
	logger := ctxlog.FromContext(ctx).With("unit", unitName(spec), "target", spec.Target)
	logger.Info("▶️ Starting unit")

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = opts.UnitTimeout
	}
	if timeout <= 0 {
		timeout = DefaultUnitTimeout
	}

	var phase atomic.Int32
	start := time.Now()

	res = model.UnitResult{Name: unitName(spec), Target: spec.Target}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unit worker panicked.", "panic", r)
			res.Status = model.StatusFail
			res.Stage = stageOf(phase.Load())
			res.Message = fmt.Sprintf("panic: %v", r)
			res.Elapsed = time.Since(start)
		}
	}()

	raw, err := o.exec.Run(ctx, timeout, func(workerCtx context.Context) (any, error) {
		return o.executeUnit(workerCtx, spec, opts, &phase), nil
	})
	res.Elapsed = time.Since(start)

	if err != nil {
		if affine.IsTimeout(err) {
			logger.Error("❌ Unit timed out.", "budget", timeout, "during", stageOf(phase.Load()))
			res.Status = model.StatusTimeout
			res.Stage = stageOf(phase.Load())
			res.Message = err.Error()
			return res
		}
		// Caller cancellation while the worker was in flight.
		res.Status = model.StatusCancelled
		res.Stage = stageOf(phase.Load())
		res.Message = err.Error()
		return res
	}

	out := raw.(*unitOutcome)
	res.Timings = out.timings
	res.Violations = out.violations
	res.Stage = out.failStage
	res.Message = out.message

	if out.failStage != model.StageNone || len(out.violations) > 0 {
		res.Status = model.StatusFail
		logger.Warn("❌ Unit failed.", "stage", res.Stage, "violations", len(res.Violations))
	} else {
		res.Status = model.StatusPass
		logger.Info("✅ Unit passed.", "elapsed", res.Elapsed)
	}
	return res
}

// executeUnit runs the phases inside the worker: instantiate the target,
// apply the expected configuration, run the category checks, release.
func (o *Orchestrator) executeUnit(ctx context.Context, spec model.UnitSpec, opts Options, phase *atomic.Int32) *unitOutcome {
	logger := ctxlog.FromContext(ctx)
	out := &unitOutcome{}

	phase.Store(phaseInstantiate)
	begin := time.Now()
	inst, err := o.resolver.Construct(ctx, spec.Target, spec.Seeds...)
	out.timings.Instantiate = time.Since(begin)
	if err != nil {
		out.failStage = model.StageInstantiate
		out.message = err.Error()
		return out
	}
	defer func() {
		phase.Store(phaseDispose)
		o.releaser.Release(ctx, inst)
	}()

	phase.Store(phaseLoad)
	begin = time.Now()
	err = o.loader.Load(ctx, inst, spec.Expected)
	out.timings.Load = time.Since(begin)
	if err != nil {
		if opts.LoadPolicy == model.LoadFatal {
			out.failStage = model.StageLoad
			out.message = err.Error()
			return out
		}
		// Advisory policy: the load failure is a violation, validation
		// still runs against whatever state the instance reached.
		logger.Warn("Load failed, continuing under advisory policy.", "error", err)
		out.violations = append(out.violations, model.Violation{
			Category: "load",
			Message:  err.Error(),
		})
	}

	phase.Store(phaseValidate)
	begin = time.Now()
	o.validate(ctx, spec, inst, out)
	out.timings.Validate = time.Since(begin)
	return out
}

// validate runs the requested category checks, collecting violations. An
// unknown category or a panicking check counts against the validation
// stage instead of crashing the worker.
func (o *Orchestrator) validate(ctx context.Context, spec model.UnitSpec, inst *resolve.Constructed, out *unitOutcome) {
	categories := spec.Categories
	if len(categories) == 0 {
		categories = make([]string, 0, len(o.checks))
		for name := range o.checks {
			categories = append(categories, name)
		}
		sort.Strings(categories)
	}

	for _, category := range categories {
		check, ok := o.checks[category]
		if !ok {
			out.failStage = model.StageValidate
			out.message = fmt.Sprintf("unknown check category %q", category)
			return
		}
		violations, err := runCheck(ctx, check, inst, spec.Expected)
		if err != nil {
			out.failStage = model.StageValidate
			out.message = fmt.Sprintf("check %q: %v", category, err)
			return
		}
		out.violations = append(out.violations, violations...)
	}
}

// runCheck shields the worker from a panicking check.
func runCheck(ctx context.Context, check Check, inst *resolve.Constructed, expected model.Expected) (violations []model.Violation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
	}()
	return check(ctx, inst, expected), nil
}
